package cli

import "github.com/urfave/cli/v3"

// joinFlags concatenates flag groups in order
func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	n := 0
	for _, g := range groups {
		n += len(g)
	}

	result := make([]cli.Flag, 0, n)
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}

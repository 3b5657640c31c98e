package model

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// AssignmentScore is a learner's fraction for one assignment
type AssignmentScore struct {
	AssignmentID types.AssignmentID
	Fraction     float64
}

// LearnerSummary is the graded result of one learner. It serializes as a flat
// object: {"id": 1, "avg": 90, "101": 0.9}.
type LearnerSummary struct {
	ID     types.LearnerID
	Avg    float64
	Scores []AssignmentScore
}

// NewLearnerSummary builds a summary from a learner's scores
func NewLearnerSummary(id types.LearnerID, scores *LearnerScores) *LearnerSummary {
	summary := &LearnerSummary{
		ID:  id,
		Avg: WeightedAverage(scores),
	}
	if scores == nil {
		return summary
	}

	summary.Scores = make([]AssignmentScore, 0, scores.Len())
	for _, assignmentID := range scores.order {
		summary.Scores = append(summary.Scores, AssignmentScore{
			AssignmentID: assignmentID,
			Fraction:     scores.fractions[assignmentID],
		})
	}
	return summary
}

// Score returns the fraction recorded for an assignment
func (s *LearnerSummary) Score(id types.AssignmentID) (float64, bool) {
	for _, score := range s.Scores {
		if score.AssignmentID == id {
			return score.Fraction, true
		}
	}
	return 0, false
}

// MarshalJSON writes id and avg followed by one field per assignment
func (s LearnerSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return goerr.Wrap(err, "failed to marshal summary field", goerr.V("field", key))
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("id", s.ID.Int()); err != nil {
		return nil, err
	}
	if err := writeField("avg", s.Avg); err != nil {
		return nil, err
	}
	for _, score := range s.Scores {
		if err := writeField(score.AssignmentID.String(), score.Fraction); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the flat form written by MarshalJSON
func (s *LearnerSummary) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return goerr.Wrap(err, "failed to unmarshal learner summary")
	}

	var (
		id  int
		avg float64
	)
	raw, ok := fields["id"]
	if !ok {
		return goerr.New("learner summary is missing id")
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return goerr.Wrap(err, "invalid learner id")
	}
	if raw, ok := fields["avg"]; ok {
		if err := json.Unmarshal(raw, &avg); err != nil {
			return goerr.Wrap(err, "invalid avg")
		}
	}

	// Field order is lost in the map, so keys are re-read from the token stream.
	keys, err := objectKeys(data)
	if err != nil {
		return err
	}

	scores := make([]AssignmentScore, 0, len(fields))
	for _, key := range keys {
		if key == "id" || key == "avg" {
			continue
		}
		assignmentID, err := types.ParseAssignmentID(key)
		if err != nil {
			return goerr.Wrap(err, "invalid assignment key", goerr.V("key", key))
		}
		var fraction float64
		if err := json.Unmarshal(fields[key], &fraction); err != nil {
			return goerr.Wrap(err, "invalid fraction", goerr.V("key", key))
		}
		scores = append(scores, AssignmentScore{AssignmentID: assignmentID, Fraction: fraction})
	}

	s.ID = types.LearnerID(id)
	s.Avg = avg
	s.Scores = scores
	return nil
}

// objectKeys returns the top-level keys of a JSON object in document order
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, goerr.Wrap(err, "failed to read learner summary")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read learner summary key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, goerr.New("unexpected token in learner summary", goerr.V("token", tok))
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, goerr.Wrap(err, "failed to read learner summary value", goerr.V("key", key))
		}
	}
	return keys, nil
}

// MarshalYAML writes the same flat mapping as MarshalJSON
func (s LearnerSummary) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key, value string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}

	add("id", s.ID.String())
	add("avg", formatFloat(s.Avg))
	for _, score := range s.Scores {
		add(score.AssignmentID.String(), formatFloat(score.Fraction))
	}
	return node, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

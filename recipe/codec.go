package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// A feed entry's document form is a two-element string sequence:
//
//	feeds:
//	  - [News, "http://example.com/news/rss/"]
//	  - [Sports, "http://example.com/sport/rss/"]
//
// Anything else under feeds (a scalar, a mapping, a pair of the wrong
// arity, a non-string member) decodes to ErrMalformedDescriptor.

// MarshalYAML renders the list as flow-style [label, url] pairs.
func (fl FeedList) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, f := range fl {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:  yaml.SequenceNode,
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Label},
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.URL},
			},
		})
	}
	return seq, nil
}

// UnmarshalYAML enforces the pair shape.
func (fl *FeedList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: feeds must be a sequence of [label, url] pairs", ErrMalformedDescriptor)
	}
	out := make(FeedList, 0, len(value.Content))
	for i, elem := range value.Content {
		if elem.Kind != yaml.SequenceNode {
			return fmt.Errorf("%w: feeds[%d] is not a [label, url] pair", ErrMalformedDescriptor, i)
		}
		if len(elem.Content) != 2 {
			return fmt.Errorf("%w: feeds[%d] has %d elements, want 2", ErrMalformedDescriptor, i, len(elem.Content))
		}
		var pair [2]string
		for j, member := range elem.Content {
			if member.Kind != yaml.ScalarNode || member.Tag != "!!str" {
				return fmt.Errorf("%w: feeds[%d][%d] is not a string", ErrMalformedDescriptor, i, j)
			}
			pair[j] = member.Value
		}
		out = append(out, Feed{Label: pair[0], URL: pair[1]})
	}
	*fl = out
	return nil
}

// MarshalJSON renders the list as [label, url] pairs.
func (fl FeedList) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(fl))
	for _, f := range fl {
		pairs = append(pairs, [2]string{f.Label, f.URL})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON enforces the pair shape. A JSON null is a no-op, matching
// how the YAML decoder treats a null feeds entry (same as an absent key).
func (fl *FeedList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: feeds must be a sequence of [label, url] pairs", ErrMalformedDescriptor)
	}
	out := make(FeedList, 0, len(raw))
	for i, elem := range raw {
		var pair []string
		if err := json.Unmarshal(elem, &pair); err != nil {
			return fmt.Errorf("%w: feeds[%d] is not a [label, url] string pair", ErrMalformedDescriptor, i)
		}
		if len(pair) != 2 {
			return fmt.Errorf("%w: feeds[%d] has %d elements, want 2", ErrMalformedDescriptor, i, len(pair))
		}
		out = append(out, Feed{Label: pair[0], URL: pair[1]})
	}
	*fl = out
	return nil
}

// Decode parses a YAML descriptor document. Unknown top-level keys are
// rejected. Shape errors in the feeds entry wrap ErrMalformedDescriptor;
// Decode performs no field validation beyond shape (see Validate).
func Decode(data []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, ErrMalformedDescriptor) {
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode descriptor: empty document")
		}
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	return &d, nil
}

// Encode renders the canonical YAML document form. Decode(Encode(d))
// reproduces d field for field, including feed order and the verbatim
// language string.
func Encode(d *Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON parses the JSON twin of the document form, used by the
// catalog API. Same shape rules as Decode.
func DecodeJSON(data []byte) (*Descriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var d Descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, ErrMalformedDescriptor) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	return &d, nil
}

// EncodeJSON renders the JSON document form. Like Encode, the result
// ends with a newline so it can be written to a file as-is.
func EncodeJSON(d *Descriptor) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return append(data, '\n'), nil
}

package provider

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/wrenlabs/specwright/internal/errs"
)

// Vocabulary maps one provider's JSON-Lines event shapes onto the
// normalized response stream. Event types are looked up by the value of
// TypeField; content is extracted from the first matching field
// candidate. Field candidates may use a dotted path for one level of
// nesting (e.g. "item.text").
type Vocabulary struct {
	TypeField string

	// Partial events carry streaming content (IsComplete=false).
	Partial map[string][]string

	// Terminal events end the turn (IsComplete=true); their content is
	// combined with everything accumulated so far.
	Terminal map[string][]string

	// Error events reject the in-flight receive. Candidates name the
	// message field.
	Errors map[string][]string
}

// DecodeState threads the line buffer and accumulated partial content
// through Decode calls. It is plain data with no hidden behavior;
// callers own exactly one per child process.
type DecodeState struct {
	Buffer      []byte
	Accumulated []string
	Failed      bool
}

// AccumulatedContent joins everything accumulated so far.
func (st *DecodeState) AccumulatedContent() string {
	return strings.Join(st.Accumulated, "\n")
}

// Decode consumes a chunk of stdout and returns the normalized responses
// it completes. All complete lines are processed and removed from the
// buffer; a trailing partial line stays buffered for the next chunk.
// Lines that do not decode as JSON are treated as literal text content
// and accumulated. A decoded error-typed event is returned as a typed
// provider error; decoding stops reporting content after that.
func (v Vocabulary) Decode(st *DecodeState, chunk []byte) ([]Response, *errs.Error) {
	st.Buffer = append(st.Buffer, chunk...)

	var responses []Response
	for {
		idx := bytes.IndexByte(st.Buffer, '\n')
		if idx == -1 {
			return responses, nil
		}

		line := st.Buffer[:idx]
		st.Buffer = st.Buffer[idx+1:]

		resp, err := v.decodeLine(st, line)
		if err != nil {
			st.Failed = true
			return responses, err
		}
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
}

// Flush processes any trailing partial line left in the buffer. Called
// when the stream ends.
func (v Vocabulary) Flush(st *DecodeState) (*Response, *errs.Error) {
	line := bytes.TrimSpace(st.Buffer)
	st.Buffer = nil
	if len(line) == 0 {
		return nil, nil
	}
	resp, err := v.decodeLine(st, line)
	if err != nil {
		st.Failed = true
	}
	return resp, err
}

func (v Vocabulary) decodeLine(st *DecodeState, line []byte) (*Response, *errs.Error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(line, &raw); err != nil {
		// Providers intermix plain text with JSON events; keep it.
		st.Accumulated = append(st.Accumulated, string(line))
		return nil, nil
	}

	eventType, _ := raw[v.typeField()].(string)

	if fields, ok := v.Errors[eventType]; ok {
		msg := firstField(raw, fields)
		if msg == "" {
			msg = "provider reported an error"
		}
		return nil, errs.New(errs.Provider, msg)
	}

	if fields, ok := v.Terminal[eventType]; ok {
		content := firstField(raw, fields)
		combined := st.AccumulatedContent()
		if content != "" {
			if combined != "" {
				combined += "\n" + content
			} else {
				combined = content
			}
		}
		st.Accumulated = nil
		return &Response{
			Content:    combined,
			IsComplete: true,
			Raw:        json.RawMessage(append([]byte(nil), line...)),
		}, nil
	}

	if fields, ok := v.Partial[eventType]; ok {
		content := firstField(raw, fields)
		if content != "" {
			st.Accumulated = append(st.Accumulated, content)
		}
		return &Response{
			Content: content,
			Raw:     json.RawMessage(append([]byte(nil), line...)),
		}, nil
	}

	// Unrecognized event types are ignored.
	return nil, nil
}

func (v Vocabulary) typeField() string {
	if v.TypeField != "" {
		return v.TypeField
	}
	return "type"
}

// firstField returns the first non-empty string among the candidate
// fields. A candidate may address one nested level with a dot.
func firstField(raw map[string]interface{}, candidates []string) string {
	for _, c := range candidates {
		if key, sub, ok := strings.Cut(c, "."); ok {
			nested, isMap := raw[key].(map[string]interface{})
			if !isMap {
				continue
			}
			if s, _ := nested[sub].(string); s != "" {
				return s
			}
			continue
		}
		if s, _ := raw[c].(string); s != "" {
			return s
		}
	}
	return ""
}

package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/opensubtitles/langcompat/internal/data"
	"github.com/opensubtitles/langcompat/internal/model"
)

// JSONStore reads the matrix from a JSON object of the form
// {"source": {"target": score, ...}, ...}.
type JSONStore struct {
	path string
	raw  []byte // set for in-memory sources
	snap snapshot
}

// NewJSONStore returns a store backed by the JSON file at path. Nothing is
// read until the first Load.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// NewEmbeddedStore returns a store over the dataset compiled into the binary.
func NewEmbeddedStore() *JSONStore {
	return NewBytesStore("embedded:"+data.FileName, data.Matrix)
}

// NewBytesStore returns a store over an in-memory JSON document. name is
// only used in errors and logs.
func NewBytesStore(name string, raw []byte) *JSONStore {
	if raw == nil {
		raw = []byte{}
	}
	return &JSONStore{path: name, raw: raw}
}

func (s *JSONStore) Load(ctx context.Context) (*model.Matrix, error) {
	return s.snap.get(ctx, s.path, s.read)
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) read() (*model.Matrix, error) {
	raw := s.raw
	if raw == nil {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, &DataError{Path: s.path, Op: "read", Err: err}
		}
		raw = b
	}
	m, err := DecodeJSON(raw)
	if err != nil {
		return nil, &DataError{Path: s.path, Op: "decode", Err: err}
	}
	return m, nil
}

// DecodeJSON parses a matrix document, keeping the key order of the file.
// A repeated key keeps its first position and its last value.
func DecodeJSON(raw []byte) (*model.Matrix, error) {
	if !utf8.Valid(raw) {
		return nil, errors.New("input is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '{', "root"); err != nil {
		return nil, err
	}

	b := model.NewBuilder()
	for dec.More() {
		source, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if err := expectDelim(dec, '{', fmt.Sprintf("row %q", source)); err != nil {
			return nil, err
		}
		b.AddSource(source)

		for dec.More() {
			target, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			score, err := readScore(dec, source, target)
			if err != nil {
				return nil, err
			}
			b.Set(source, target, score)
		}
		if _, err := dec.Token(); err != nil { // closing '}' of the row
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}' of the root
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after matrix object")
	}

	return b.Build(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%s: unexpected end of input", what)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s: expected object, got %v", what, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func readScore(dec *json.Decoder, source, target string) (int, error) {
	tok, err := dec.Token()
	if err != nil {
		return 0, err
	}
	num, ok := tok.(json.Number)
	if !ok {
		if _, isDelim := tok.(json.Delim); isDelim {
			return 0, fmt.Errorf("score %s->%s: expected integer, got nested value", source, target)
		}
		return 0, fmt.Errorf("score %s->%s: expected integer, got %v", source, target, tok)
	}
	n, err := strconv.Atoi(num.String())
	if err != nil {
		return 0, fmt.Errorf("score %s->%s: %s is not an integer", source, target, num)
	}
	if !model.ValidScore(n) {
		return 0, fmt.Errorf("score %s->%s: %d outside [%d, %d]", source, target, n, model.MinScore, model.MaxScore)
	}
	return n, nil
}

// WriteJSON writes m as a two-space indented JSON object in matrix order.
func WriteJSON(w io.Writer, m *model.Matrix) error {
	bw := bufio.NewWriter(w)
	sources := m.Sources()

	if len(sources) == 0 {
		bw.WriteString("{}\n")
		return bw.Flush()
	}

	bw.WriteString("{\n")
	for i, src := range sources {
		bw.WriteString("  ")
		writeKey(bw, src)
		targets := m.Targets(src)
		if len(targets) == 0 {
			bw.WriteString(": {}")
		} else {
			bw.WriteString(": {\n")
			for j, tgt := range targets {
				score, _ := m.Score(src, tgt)
				bw.WriteString("    ")
				writeKey(bw, tgt)
				bw.WriteString(": ")
				bw.WriteString(strconv.Itoa(score))
				if j < len(targets)-1 {
					bw.WriteByte(',')
				}
				bw.WriteByte('\n')
			}
			bw.WriteString("  }")
		}
		if i < len(sources)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeKey(w *bufio.Writer, k string) {
	b, _ := json.Marshal(k)
	w.Write(b)
}

// WriteJSONFile writes m to path. An existing file is replaced only once the
// new one is fully written.
func WriteJSONFile(path string, m *model.Matrix) error {
	return replaceFile(path, func(tmp string) error {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if err := WriteJSON(f, m); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

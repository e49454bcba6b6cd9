package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
	EncodingWindows1252 = "cp1252"
	EncodingLatin1      = "latin-1"
	EncodingReplace     = "utf-8-replace"

	DefaultDelimiter = ','

	replacementChar = "\uFFFD"
)

var (
	errDecode = errors.New("decode failed")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	// bytes Windows-1252 leaves undefined
	cp1252Undefined = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}
)

type decoder struct {
	name   string
	decode func([]byte) (string, error)
}

// decoders in the order they are attempted.
var decoders = []decoder{
	{name: EncodingUTF8, decode: decodeUTF8},
	{name: EncodingUTF8BOM, decode: decodeUTF8BOM},
	{name: EncodingWindows1252, decode: decodeWindows1252},
	{name: EncodingLatin1, decode: decodeLatin1},
}

func decodeUTF8(b []byte) (string, error) {
	if bytes.HasPrefix(b, utf8BOM) || !utf8.Valid(b) {
		return "", errDecode
	}
	return string(b), nil
}

func decodeUTF8BOM(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errDecode
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errDecode, err)
	}
	return string(out), nil
}

func decodeWindows1252(b []byte) (string, error) {
	for _, c := range b {
		if bytes.IndexByte(cp1252Undefined, c) >= 0 {
			return "", errDecode
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errDecode, err)
	}
	return string(out), nil
}

func decodeLatin1(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errDecode, err)
	}
	return string(out), nil
}

// decodeReplace never fails: undecodable sequences become U+FFFD.
func decodeReplace(b []byte) string {
	return strings.ToValidUTF8(string(bytes.TrimPrefix(b, utf8BOM)), replacementChar)
}

// Decode converts raw bytes to text using the first encoding that decodes
// without error, falling back to a lossy UTF-8 pass. It returns the text and
// the name of the encoding used.
func Decode(b []byte) (string, string) {
	return decodeWith(b, decoders)
}

func decodeWith(b []byte, list []decoder) (string, string) {
	for _, d := range list {
		s, err := d.decode(b)
		if err != nil {
			slog.Debug("encoding attempt failed", "encoding", d.name, "error", err)
			continue
		}
		return strings.TrimPrefix(s, "\ufeff"), d.name
	}
	slog.Warn("no encoding decoded cleanly, replacing invalid bytes")
	return decodeReplace(b), EncodingReplace
}

// Load reads the delimited file at path.
func Load(path string, delim rune) (*Table, error) {
	if path == "" {
		return nil, errors.New("input path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	t, err := Parse(b, delim)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes b and reads it as a delimited table with a header row.
func Parse(b []byte, delim rune) (*Table, error) {
	if delim == 0 {
		delim = DefaultDelimiter
	}

	text, enc := Decode(b)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table: no header row")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	t, err := New(header, rows)
	if err != nil {
		return nil, err
	}
	t.Encoding = enc

	slog.Debug("table parsed", "encoding", enc, "columns", len(t.Columns), "rows", t.Len())
	return t, nil
}

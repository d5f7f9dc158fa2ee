package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/varalys/gitsecrets/internal/patterns"
	"github.com/varalys/gitsecrets/internal/redact"
	"github.com/varalys/gitsecrets/internal/types"
)

var (
	// ErrUnreadable marks a file that could not be opened or read.
	ErrUnreadable = errors.New("unreadable file")
	// ErrBinary marks a file whose content cannot be treated as text.
	ErrBinary = errors.New("binary content")
)

// Values that match a pattern's shape but are template or documentation
// artifacts. Compared lower-cased and exact.
var placeholders = map[string]bool{
	"password":    true,
	"secret":      true,
	"key":         true,
	"token":       true,
	"xxx":         true,
	"changeme":    true,
	"example":     true,
	"your_key":    true,
	"your_secret": true,
}

const (
	sniffLen = 8 << 10

	inlineIgnore         = "gitsecrets:ignore"
	inlineIgnoreNextLine = "gitsecrets:ignore-next-line"
)

// Scanner applies a pattern registry to file content line by line.
type Scanner struct {
	specs []patterns.Spec
}

// NewScanner returns a Scanner for reg, or for the default registry when reg
// is nil.
func NewScanner(reg *patterns.Registry) *Scanner {
	if reg == nil {
		reg = patterns.Default()
	}
	return &Scanner{specs: reg.Specs()}
}

// ScanFile scans the file at path and reports findings under display. It
// returns an error wrapping ErrUnreadable or ErrBinary when the file cannot
// be treated as text; callers decide whether that is fatal.
func (s *Scanner) ScanFile(path, display string) ([]types.Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64<<10)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if looksBinary(head) {
		return nil, fmt.Errorf("%w: %s", ErrBinary, display)
	}
	return s.ScanReader(br, display), nil
}

// ScanReader scans text from r. Undecodable bytes are replaced with U+FFFD
// and a read error ends the scan with whatever was found so far.
func (s *Scanner) ScanReader(r io.Reader, display string) []types.Finding {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	br := bufio.NewReader(dec)

	var out []types.Finding
	lineNo := 0
	skipNext := false
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			switch {
			case strings.Contains(line, inlineIgnoreNextLine):
				skipNext = true
			case skipNext:
				skipNext = false
			case strings.Contains(line, inlineIgnore):
			default:
				out = s.scanLine(out, display, lineNo, line)
			}
		}
		if err != nil {
			break
		}
	}
	return out
}

type lineHit struct {
	spec patterns.Spec
	span redact.Span
}

// scanLine collects every non-placeholder match on the line first, so each
// finding's context masks all values detected on that line, not only its own.
func (s *Scanner) scanLine(out []types.Finding, display string, lineNo int, line string) []types.Finding {
	var hits []lineHit
	for _, spec := range s.specs {
		for _, loc := range spec.Pattern.FindAllStringSubmatchIndex(line, -1) {
			lo, hi := loc[2*spec.Group], loc[2*spec.Group+1]
			if lo < 0 {
				continue
			}
			if placeholders[strings.ToLower(line[lo:hi])] {
				continue
			}
			hits = append(hits, lineHit{spec: spec, span: redact.Span{Start: lo, End: hi}})
		}
	}
	if len(hits) == 0 {
		return out
	}

	spans := make([]redact.Span, len(hits))
	for i, h := range hits {
		spans[i] = h.span
	}
	maskedLine := redact.Context(line, spans...)
	for _, h := range hits {
		out = append(out, types.Finding{
			File:        display,
			Line:        lineNo,
			SecretType:  string(h.spec.ID),
			Severity:    h.spec.Severity,
			Description: h.spec.Description,
			Match:       redact.Mask(line[h.span.Start:h.span.End]),
			Context:     maskedLine,
		})
	}
	return out
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// nonTextTypes are detected families whose content is never scanned when the
// head also fails to read as text. Subtypes are matched through the parent
// chain, so jar/docx fall under zip.
var nonTextTypes = []string{
	"application/zip",
	"application/gzip",
	"application/x-tar",
	"application/x-7z-compressed",
	"application/x-rar-compressed",
	"application/x-bzip2",
	"application/x-xz",
	"application/zstd",
	"application/pdf",
	"application/wasm",
	"application/x-elf",
	"application/x-executable",
	"application/x-sharedlib",
	"application/x-mach-binary",
	"application/vnd.microsoft.portable-executable",
	"application/x-java-applet",
	"application/vnd.sqlite3",
}

// looksBinary sniffs the head of a file. A NUL byte outside a UTF-16 file is
// binary. Otherwise only a media, archive or executable type whose head does
// not read as text is binary; stray control bytes and text that merely opens
// with a known magic number are decoded and scanned.
func looksBinary(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	if bytes.HasPrefix(head, bomUTF16LE) || bytes.HasPrefix(head, bomUTF16BE) {
		return false
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	return isNonTextType(mimetype.Detect(head)) && !readsAsText(head)
}

func isNonTextType(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		name := mt.String()
		for _, prefix := range []string{"image/", "audio/", "video/", "font/"} {
			if strings.HasPrefix(name, prefix) {
				return true
			}
		}
		for _, t := range nonTextTypes {
			if mt.Is(t) {
				return true
			}
		}
	}
	return false
}

// readsAsText reports whether head is valid UTF-8, allowing a rune cut at the
// sniff boundary, with at most one control byte in ten.
func readsAsText(head []byte) bool {
	b := head
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0 && !utf8.Valid(b); i++ {
		b = b[:len(b)-1]
	}
	if !utf8.Valid(b) {
		return false
	}
	ctrl := 0
	for _, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' && c != '\f' && c != '\v' {
			ctrl++
		}
	}
	return ctrl*10 <= len(b)
}

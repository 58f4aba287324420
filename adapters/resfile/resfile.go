// Package resfile reads "key: value" resource files into a resource.Store.
package resfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/ports"
	"github.com/rs/zerolog"
)

// Errors returned by ParseFile.
var (
	ErrFileOpen   = errors.New("cannot open resource file")
	ErrNotRegular = errors.New("resource path is not a regular file")
	ErrRead       = errors.New("cannot read resource file")
)

// Malformed describes a skipped line without a ':' delimiter.
type Malformed struct {
	Line int
	Text string
}

// Result is the outcome of parsing one file.
type Result struct {
	Source    string
	Store     *resource.Store
	Lines     int
	Entries   int
	Malformed []Malformed
}

// Parser parses resource files.
type Parser struct {
	logger zerolog.Logger
}

// New creates a parser that logs malformed lines to logger.
func New(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile opens and parses path.
func (p *Parser) ParseFile(path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrFileOpen, path, err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrFileOpen, path, err)
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse reads resources from r. source names the input in logs.
// Lines have no length limit. A read error stops parsing and is returned
// with what was read so far.
func (p *Parser) Parse(r io.Reader, source string) (Result, error) {
	res := Result{Source: source, Store: resource.NewStore()}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return res, fmt.Errorf("%w: %s: line %d: %v", ErrRead, source, res.Lines+1, err)
		}
		if line == "" && err == io.EOF {
			break
		}
		res.Lines++
		p.parseLine(&res, strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"))
		if err == io.EOF {
			break
		}
	}

	return res, nil
}

// parseLine applies one line to res. The key is everything before the
// first ':' as written; only the value is trimmed.
func (p *Parser) parseLine(res *Result, line string) {
	if line == "" || line[0] == '!' || line[0] == '#' {
		return
	}

	i := strings.IndexByte(line, ':')
	if i < 0 {
		res.Malformed = append(res.Malformed, Malformed{Line: res.Lines, Text: line})
		p.logger.Warn().
			Str("file", res.Source).
			Int("line", res.Lines).
			Str("text", truncate(line, 200)).
			Msg("skipping malformed resource line")
		return
	}

	res.Store.Set(line[:i], strings.TrimSpace(line[i+1:]))
	res.Entries++
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Load implements ports.ResourceLoader.
func (p *Parser) Load(path string) (*resource.Store, int, error) {
	res, err := p.ParseFile(path)
	if err != nil {
		return nil, 0, err
	}
	return res.Store, len(res.Malformed), nil
}

var _ ports.ResourceLoader = (*Parser)(nil)

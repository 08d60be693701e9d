package annotation

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/fspath"
)

// ErrMalformed marks a line that starts with a declaration marker but does
// not have the form the marker requires.
var ErrMalformed = errors.New("malformed declaration")

var (
	markerRegex = regexp.MustCompile(`^\s*\.\.(fs_command|fs_counter|fs_parameter|log-begin)\.\.`)

	commandRegex = regexp.MustCompile(
		`^\s*\.\.fs_command\.\.\s+(?P<path>(?:"[^"]*"\s*)+?)\s*"(?P<callback>[^"]+)"\s*;\s*$`)
	counterRegex = regexp.MustCompile(
		`^\s*\.\.fs_counter\.\.\s+(?P<path>(?:"[^"]*"\s*)+)\.\.fs_separator\.\.\s+"(?P<name>[^"]+)"\s*;\s*$`)
	parameterRegex = regexp.MustCompile(
		`^\s*\.\.fs_parameter\.\.\s+(?P<path>(?:"[^"]*"\s*)+?)\s*"(?P<name>[^"]+)"\s+"(?P<type>[^"]+)"\s*;\s*$`)
	logRegex = regexp.MustCompile(
		`^\s*\.\.log-begin\.\.\s+(?P<name>\S+)\s+"(?P<fmt>(?:[^"\\]|\\.)+)"\s*\.\.log-end\.\.\s*;\s*$`)

	literalRegex    = regexp.MustCompile(`"([^"]*)"`)
	identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Scan extracts all declarations from a single source. It stops at the first
// malformed declaration.
func Scan(src Source) (*Declarations, error) {
	decls := &Declarations{}

	scanner := bufio.NewScanner(bytes.NewReader(src.Content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")

		marker := markerRegex.FindStringSubmatch(text)
		if marker == nil {
			continue
		}
		pos := Pos{File: src.Path, Line: line}

		var err error
		switch marker[1] {
		case "fs_command":
			err = decls.scanCommand(text, pos)
		case "fs_counter":
			err = decls.scanCounter(text, pos)
		case "fs_parameter":
			err = decls.scanParameter(text, pos)
		case "log-begin":
			err = decls.scanLogPoint(text, pos)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", src.Path)
	}
	return decls, nil
}

func (d *Declarations) scanCommand(text string, pos Pos) error {
	m := commandRegex.FindStringSubmatch(text)
	if m == nil {
		return malformed(pos, KindCommand.String(), "expected `..fs_command.. \"<path>\" \"<callback>\";`")
	}
	path, err := parsePathLiterals(m[commandRegex.SubexpIndex("path")])
	if err != nil {
		return malformed(pos, KindCommand.String(), err.Error())
	}
	callback := m[commandRegex.SubexpIndex("callback")]
	if !identifierRegex.MatchString(callback) {
		return malformed(pos, KindCommand.String(), "callback "+strconv.Quote(callback)+" is not an identifier")
	}
	d.Nodes = append(d.Nodes, Declaration{
		Kind:     KindCommand,
		Path:     path,
		Callback: callback,
		Pos:      pos,
	})
	return nil
}

func (d *Declarations) scanCounter(text string, pos Pos) error {
	m := counterRegex.FindStringSubmatch(text)
	if m == nil {
		return malformed(pos, KindCounter.String(), "expected `..fs_counter.. \"<path>\" ..fs_separator.. \"<name>\";`")
	}
	path, err := parsePathLiterals(m[counterRegex.SubexpIndex("path")])
	if err != nil {
		return malformed(pos, KindCounter.String(), err.Error())
	}
	name := m[counterRegex.SubexpIndex("name")]
	if !identifierRegex.MatchString(name) {
		return malformed(pos, KindCounter.String(), "name "+strconv.Quote(name)+" is not an identifier")
	}
	d.Nodes = append(d.Nodes, Declaration{
		Kind:     KindCounter,
		Path:     path,
		Callback: CounterCallbackPrefix + name,
		Name:     name,
		Pos:      pos,
	})
	return nil
}

func (d *Declarations) scanParameter(text string, pos Pos) error {
	m := parameterRegex.FindStringSubmatch(text)
	if m == nil {
		return malformed(pos, KindParameter.String(), "expected `..fs_parameter.. \"<path>\" \"<name>\" \"<type>\";`")
	}
	path, err := parsePathLiterals(m[parameterRegex.SubexpIndex("path")])
	if err != nil {
		return malformed(pos, KindParameter.String(), err.Error())
	}
	name := m[parameterRegex.SubexpIndex("name")]
	if !identifierRegex.MatchString(name) {
		return malformed(pos, KindParameter.String(), "name "+strconv.Quote(name)+" is not an identifier")
	}
	d.Nodes = append(d.Nodes, Declaration{
		Kind:     KindParameter,
		Path:     path,
		Callback: ParameterCallbackPrefix + name,
		Name:     name,
		Type:     strings.TrimSpace(m[parameterRegex.SubexpIndex("type")]),
		Pos:      pos,
	})
	return nil
}

func (d *Declarations) scanLogPoint(text string, pos Pos) error {
	m := logRegex.FindStringSubmatch(text)
	if m == nil {
		return malformed(pos, "log point", "expected `..log-begin.. <name> \"<format>\" ..log-end..;`")
	}
	name := m[logRegex.SubexpIndex("name")]
	if !identifierRegex.MatchString(name) {
		return malformed(pos, "log point", "name "+strconv.Quote(name)+" is not an identifier")
	}
	d.LogPoints = append(d.LogPoints, LogPoint{
		Name:   name,
		Format: m[logRegex.SubexpIndex("fmt")],
		Pos:    pos,
	})
	return nil
}

// parsePathLiterals joins a run of adjacent string literals and parses the
// result as a filesystem path.
func parsePathLiterals(run string) (fspath.Path, error) {
	var parts []string
	for _, lit := range literalRegex.FindAllStringSubmatch(run, -1) {
		parts = append(parts, lit[1])
	}
	return fspath.ParseLiterals(parts...)
}

func malformed(pos Pos, what, detail string) error {
	return errors.Mark(errors.Newf("%s: malformed %s declaration: %s", pos, what, detail), ErrMalformed)
}

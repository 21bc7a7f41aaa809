// Package assets embeds the default word lists so the server runs without
// any list files configured.
package assets

import (
	"bufio"
	"embed"
	"io"
	"strings"

	"github.com/samber/oops"
)

//go:embed allowed.txt answers.txt
var FS embed.FS

// ReadWords returns one lowercase word per non-empty, non-comment line of r.
func ReadWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

func readEmbedded(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, oops.With("file", name).Wrap(err)
	}
	defer f.Close()
	list, err := ReadWords(f)
	return list, oops.With("file", name).Wrap(err)
}

// AnswersList returns the embedded answer words.
func AnswersList() ([]string, error) {
	return readEmbedded("answers.txt")
}

// AllowedList returns the embedded extra guess words.
func AllowedList() ([]string, error) {
	return readEmbedded("allowed.txt")
}

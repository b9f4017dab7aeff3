// Package docs provides a small local document index used by the search_docs
// tool. Embeddings are computed by feature hashing; no external model.
package docs

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	vectorDim    = 512
	maxChunkSize = 800
)

// Match is one indexed text chunk returned by Search.
type Match struct {
	File    string
	Excerpt string
	Score   float32
}

type entry struct {
	file   string
	text   string
	vector []float32
}

// Index holds embedded document chunks. Build it once with Load; Search is
// read-only afterwards.
type Index struct {
	entries []entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Load indexes every .txt, .md, and .pdf file directly under dir. A missing
// or empty directory is not an error; searches just return nothing.
func (ix *Index) Load(dir string) error {
	chunks, err := readChunks(dir)
	if err != nil {
		return fmt.Errorf("docs: load %q: %w", dir, err)
	}
	if len(chunks) == 0 {
		log.Printf("docs: no documents found in %q", dir)
		return nil
	}

	for _, c := range chunks {
		ix.entries = append(ix.entries, entry{file: c.file, text: c.text, vector: embed(c.text)})
	}
	log.Printf("docs: indexed %d chunks from %q", len(ix.entries), dir)
	return nil
}

// Search returns the topK chunks most similar to query, best first.
func (ix *Index) Search(query string, topK int) []Match {
	if len(ix.entries) == 0 || topK <= 0 {
		return nil
	}

	qv := embed(query)
	matches := make([]Match, 0, len(ix.entries))
	for _, e := range ix.entries {
		matches = append(matches, Match{File: e.file, Excerpt: e.text, Score: cosine(qv, e.vector)})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK]
}

// embed hashes the lowercased words of text into a normalized fixed-size
// vector.
func embed(text string) []float32 {
	vec := make([]float32, vectorDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%vectorDim]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm = math.Sqrt(norm); norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

type rawChunk struct {
	file string
	text string
}

func readChunks(dir string) ([]rawChunk, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunks []rawChunk
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		var text string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".txt", ".md":
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			text = string(data)
		case ".pdf":
			text, err = readPDF(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("read pdf %q: %w", name, err)
			}
		default:
			continue
		}

		for _, part := range splitParagraphs(text, maxChunkSize) {
			chunks = append(chunks, rawChunk{file: name, text: part})
		}
	}
	return chunks, nil
}

// splitParagraphs packs paragraphs into chunks of at most maxLen characters,
// never splitting inside a paragraph.
func splitParagraphs(text string, maxLen int) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var out []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > maxLen {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

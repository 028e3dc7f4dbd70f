package brainwave

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
)

// Analyzer turns a free text mood into a parameter set. Implementations may
// call out to a remote model; the returned parameters must validate.
type Analyzer interface {
	Analyze(ctx context.Context, mood string) (Parameters, error)
}

// PresetAnalyzer maps a mood onto the built-in presets by fuzzy matching
// the words of the mood against each preset's keywords. It works offline.
type PresetAnalyzer struct {
	presets  []Preset
	fallback string
}

// NewPresetAnalyzer returns an analyzer over the built-in presets. When no
// keyword matches, the fallback preset is used.
func NewPresetAnalyzer(fallback string) *PresetAnalyzer {
	if fallback == "" {
		fallback = "relax"
	}
	return &PresetAnalyzer{presets: Presets(), fallback: fallback}
}

// keywordSource exposes every keyword of every preset to fuzzy.FindFrom.
type keywordSource struct {
	words  []string
	owners []int
}

func (k keywordSource) String(i int) string { return k.words[i] }
func (k keywordSource) Len() int            { return len(k.words) }

func (a *PresetAnalyzer) source() keywordSource {
	var src keywordSource
	for i, p := range a.presets {
		for _, w := range p.Keywords {
			src.words = append(src.words, w)
			src.owners = append(src.owners, i)
		}
	}
	return src
}

// Scores returns the match score of every preset for mood.
func (a *PresetAnalyzer) Scores(mood string) []int {
	scores := make([]int, len(a.presets))
	src := a.source()

	words := strings.FieldsFunc(strings.ToLower(mood), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		for _, m := range fuzzy.FindFrom(word, src) {
			// Keywords must start with the word; scattered subsequence
			// matches are noise for single words.
			if len(m.MatchedIndexes) == 0 || m.MatchedIndexes[0] != 0 {
				continue
			}
			weight := len(word)*10 + m.Score
			if weight < 1 {
				weight = 1
			}
			scores[src.owners[m.Index]] += weight
		}
	}
	return scores
}

// Analyze implements Analyzer.
func (a *PresetAnalyzer) Analyze(ctx context.Context, mood string) (Parameters, error) {
	if err := ctx.Err(); err != nil {
		return Parameters{}, err
	}
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return Parameters{}, fmt.Errorf("%w: empty mood", ErrNoMatch)
	}

	best, bestScore := -1, 0
	for i, s := range a.Scores(mood) {
		if s > bestScore {
			best, bestScore = i, s
		}
	}

	var preset Preset
	if best < 0 {
		p, err := LookupPreset(a.fallback)
		if err != nil {
			return Parameters{}, fmt.Errorf("%w: %w", ErrNoMatch, err)
		}
		preset = p
		log.Debug("No preset matched mood, using fallback", "mood", mood, "preset", preset.Name)
	} else {
		preset = a.presets[best]
		log.Debug("Matched mood to preset", "mood", mood, "preset", preset.Name, "score", bestScore)
	}

	params := preset.Params
	params.Mood = mood
	return params, nil
}

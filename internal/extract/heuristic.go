package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/speakspace/speakspace-api/internal/domain"
)

// maxLastResortSentences caps the lower-quality sentence pass.
const maxLastResortSentences = 6

// shortPieceLimit is the length under which a compound sub-clause is emitted
// even without a leading action verb.
const shortPieceLimit = 80

var (
	// Clause boundaries: sentence terminators followed by whitespace,
	// newlines, and commas.
	clauseBoundaryRe = regexp.MustCompile(`[.?!;]\s+|\n|,`)

	// Standalone conjunctions splitting a clause into independent instructions.
	conjunctionRe = regexp.MustCompile(`(?i)\b(?:and|also|then)\b`)

	// Leading polite/imperative filler.
	fillerRe = regexp.MustCompile(`(?i)^(?:please\s+|kindly\s+|remind me to\s+|remember to\s+)`)

	// Compound instruction marker and splitter.
	andWordRe = regexp.MustCompile(`(?i)\band\b`)

	// Last-resort sentence boundaries.
	sentenceBoundaryRe = regexp.MustCompile(`[.?!]\s+`)

	// Trailing clause punctuation left over after splitting.
	trailingPunctRe = regexp.MustCompile(`[.?!;]+$`)
)

// actionVerbs marks the start of a piece as an instruction of its own.
var actionVerbs = map[string]bool{
	"call": true, "email": true, "meet": true, "submit": true,
	"finish": true, "complete": true, "review": true, "buy": true,
	"order": true, "schedule": true, "prepare": true, "create": true,
	"draft": true, "send": true, "book": true, "attend": true,
	"check": true, "update": true, "pay": true,
}

// HeuristicExtractor is the deterministic, dependency-free fallback parser.
// It splits the transcript into candidate clauses, strips polite filler,
// parses natural-language due times, and breaks compound instructions into
// separate action items. Every item it emits has medium priority.
type HeuristicExtractor struct {
	parser *when.Parser
	logger *slog.Logger
	now    func() time.Time
}

// NewHeuristicExtractor creates the fallback parser with English
// natural-language date rules.
func NewHeuristicExtractor(logger *slog.Logger) *HeuristicExtractor {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)

	return &HeuristicExtractor{
		parser: parser,
		logger: logger.With("component", "heuristic_extractor"),
		now:    time.Now,
	}
}

// Extract parses the transcript locally. It never fails: unusable input
// yields an empty item list.
func (h *HeuristicExtractor) Extract(ctx context.Context, transcript string) ([]domain.ActionItem, error) {
	normalized := strings.Join(strings.Fields(transcript), " ")
	if normalized == "" {
		return nil, nil
	}

	items := h.parseClauses(normalized)

	// Last resort: nothing matched the clause pass, so take whole sentences
	// as lower-quality items.
	if len(items) == 0 {
		items = h.parseSentences(normalized)
	}

	h.logger.Debug("heuristic extraction finished",
		"transcript_length", len(normalized),
		"item_count", len(items))
	return items, nil
}

// parseClauses is the main pass: boundary split, filler strip, due-time
// parse, and compound handling.
func (h *HeuristicExtractor) parseClauses(normalized string) []domain.ActionItem {
	var items []domain.ActionItem

	for _, clause := range h.splitClauses(normalized) {
		if len(clause) < 3 {
			continue
		}

		clause = stripFiller(clause)
		if clause == "" {
			continue
		}

		clauseDue := h.parseDue(clause)

		if compound := h.splitCompound(clause, clauseDue); len(compound) > 0 {
			items = append(items, compound...)
			continue
		}

		if item, ok := h.newItem(clause, clauseDue); ok {
			items = append(items, item)
		}
	}

	return items
}

// splitClauses breaks the normalized transcript into candidate clauses.
func (h *HeuristicExtractor) splitClauses(normalized string) []string {
	var clauses []string
	for _, part := range clauseBoundaryRe.Split(normalized, -1) {
		for _, clause := range conjunctionRe.Split(part, -1) {
			clause = strings.TrimSpace(trailingPunctRe.ReplaceAllString(strings.TrimSpace(clause), ""))
			if clause != "" {
				clauses = append(clauses, clause)
			}
		}
	}
	return clauses
}

// splitCompound handles clauses like "email X and call Y": when splitting on
// "and" yields two or more usable pieces, each piece becomes its own item,
// inheriting the parent clause's due time when it has none of its own.
// Returns nil when the clause is not a compound instruction.
func (h *HeuristicExtractor) splitCompound(clause string, clauseDue *time.Time) []domain.ActionItem {
	if !andWordRe.MatchString(clause) {
		return nil
	}

	var pieces []string
	for _, piece := range andWordRe.Split(clause, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			pieces = append(pieces, piece)
		}
	}
	if len(pieces) < 2 {
		return nil
	}

	var items []domain.ActionItem
	for _, piece := range pieces {
		first := strings.ToLower(strings.SplitN(piece, " ", 2)[0])
		if !actionVerbs[first] && len(piece) >= shortPieceLimit {
			continue
		}

		due := h.parseDue(piece)
		if due == nil {
			due = clauseDue
		}
		if item, ok := h.newItem(piece, due); ok {
			items = append(items, item)
		}
	}

	return items
}

// stripFiller removes leading polite/imperative filler, repeating so that
// stacked prefixes ("please remember to ...") are fully removed.
func stripFiller(clause string) string {
	for {
		stripped := strings.TrimSpace(fillerRe.ReplaceAllString(clause, ""))
		if stripped == clause {
			return clause
		}
		clause = stripped
	}
}

// parseSentences is the last-resort pass over whole sentences.
func (h *HeuristicExtractor) parseSentences(normalized string) []domain.ActionItem {
	var items []domain.ActionItem

	sentences := sentenceBoundaryRe.Split(normalized, -1)
	if len(sentences) > maxLastResortSentences {
		sentences = sentences[:maxLastResortSentences]
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(trailingPunctRe.ReplaceAllString(strings.TrimSpace(sentence), ""))
		if len(sentence) <= 2 {
			continue
		}
		if item, ok := h.newItem(sentence, h.parseDue(sentence)); ok {
			items = append(items, item)
		}
	}

	return items
}

// parseDue looks for a natural-language date/time expression anywhere in the
// text. Returns nil when none is found.
func (h *HeuristicExtractor) parseDue(text string) *time.Time {
	result, err := h.parser.Parse(text, h.now())
	if err != nil || result == nil {
		return nil
	}

	due := result.Time
	return &due
}

// newItem builds a medium-priority pending item, dropping descriptions the
// domain rejects.
func (h *HeuristicExtractor) newItem(description string, due *time.Time) (domain.ActionItem, bool) {
	item, err := domain.NewActionItem(description, due, domain.PriorityMedium)
	if err != nil {
		h.logger.Debug("discarding unusable clause", "error", err)
		return domain.ActionItem{}, false
	}
	return item, true
}

var _ Extractor = (*HeuristicExtractor)(nil)

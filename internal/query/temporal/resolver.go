// Package temporal resolves the date interval a question refers to,
// trying explicit literals first and falling back to comparison phrases,
// relative keywords and "il y a N ..." counts.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

// AcceptedFormats lists the literal date formats surfaced to the user
// when no strategy matches.
var AcceptedFormats = []string{"JJ/MM/AAAA", "JJ-MM-AAAA", "JJ.MM.AAAA", "JJ/MM/AA"}

const dateLit = `\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}`

var (
	rangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`du\s+(` + dateLit + `)\s+(?:au|a)\s+(` + dateLit + `)`),
		regexp.MustCompile(`entre\s+(?:le\s+)?(` + dateLit + `)\s+et\s+(?:le\s+)?(` + dateLit + `)`),
		regexp.MustCompile(`de\s+(?:le\s+)?(` + dateLit + `)\s+(?:au|a|jusqu'au|jusqu\s+au)\s+(?:le\s+)?(` + dateLit + `)`),
		regexp.MustCompile(`(` + dateLit + `)\s*(?:au|a|jusqu'au|jusqu\s+au|-)\s*(` + dateLit + `)`),
	}

	singlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:le\s+)?(` + dateLit + `)`),
		regexp.MustCompile(`(?:au|a)\s+(?:le\s+)?(` + dateLit + `)`),
		regexp.MustCompile(`pour\s+(?:le\s+)?(` + dateLit + `)`),
	}

	anyDate = regexp.MustCompile(dateLit)
	dateSep = regexp.MustCompile(`[/.\-]`)

	comparisonPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:difference|compare|comparaison|comparer)\s+entre\s+(.+?)\s+et\s+(.+)`),
		regexp.MustCompile(`(?:ce mois|mois actuel|this month)\s+(?:vs|versus|contre|compare a)\s+(?:mois dernier|last month)`),
		regexp.MustCompile(`(?:cette semaine|this week)\s+(?:vs|versus|contre|compare a)\s+(?:semaine derniere|last week)`),
	}

	relativeCountPatterns = []struct {
		re   *regexp.Regexp
		unit models.PeriodUnit
	}{
		{regexp.MustCompile(`il y a (\d+) jours?`), models.UnitDay},
		{regexp.MustCompile(`il y a (\d+) semaines?`), models.UnitWeek},
		{regexp.MustCompile(`il y a (\d+) mois`), models.UnitMonth},
		{regexp.MustCompile(`(\d+) jours? derniers?`), models.UnitDay},
		{regexp.MustCompile(`(\d+) semaines? dernieres?`), models.UnitWeek},
		{regexp.MustCompile(`(\d+) mois derniers?`), models.UnitMonth},
	}
)

// relativeKeywords is scanned in order; the first phrase found as a
// substring wins. Phrases are stored lower-cased with accents stripped,
// matching what NormalizeLower produces.
var relativeKeywords = []struct {
	phrase string
	unit   models.PeriodUnit
	offset int
}{
	{"aujourd'hui", models.UnitDay, 0},
	{"ce jour", models.UnitDay, 0},
	{"today", models.UnitDay, 0},

	{"cette semaine", models.UnitWeek, 0},
	{"semaine actuelle", models.UnitWeek, 0},
	{"this week", models.UnitWeek, 0},

	{"ce mois", models.UnitMonth, 0},
	{"mois actuel", models.UnitMonth, 0},
	{"mois courant", models.UnitMonth, 0},
	{"this month", models.UnitMonth, 0},

	{"cette annee", models.UnitYear, 0},
	{"annee actuelle", models.UnitYear, 0},
	{"this year", models.UnitYear, 0},

	{"hier", models.UnitDay, -1},
	{"yesterday", models.UnitDay, -1},

	{"semaine derniere", models.UnitWeek, -1},
	{"derniere semaine", models.UnitWeek, -1},
	{"semaine passee", models.UnitWeek, -1},
	{"last week", models.UnitWeek, -1},

	{"mois dernier", models.UnitMonth, -1},
	{"dernier mois", models.UnitMonth, -1},
	{"mois passe", models.UnitMonth, -1},
	{"last month", models.UnitMonth, -1},

	{"annee derniere", models.UnitYear, -1},
	{"derniere annee", models.UnitYear, -1},
	{"annee passee", models.UnitYear, -1},
	{"last year", models.UnitYear, -1},

	{"demain", models.UnitDay, 1},
	{"tomorrow", models.UnitDay, 1},

	{"semaine prochaine", models.UnitWeek, 1},
	{"next week", models.UnitWeek, 1},

	{"mois prochain", models.UnitMonth, 1},
	{"next month", models.UnitMonth, 1},

	{"annee prochaine", models.UnitYear, 1},
	{"next year", models.UnitYear, 1},
}

// Resolver turns question text into a concrete date interval.
type Resolver struct {
	log logger.Logger
}

func NewResolver(log logger.Logger) *Resolver {
	return &Resolver{log: log}
}

// Resolve tries each strategy in order against the question and the
// reference instant. A nil result means no strategy matched.
func (r *Resolver) Resolve(text string, ref time.Time) *models.TemporalResult {
	lower := textnorm.NormalizeLower(text)

	if res := r.resolveExplicit(lower); res != nil {
		return res
	}
	// Comparison phrases come before relative keywords: "ce mois vs mois
	// dernier" contains both relative phrases and must stay a comparison.
	if res := r.resolveComparison(lower, ref); res != nil {
		return res
	}
	if res := r.resolveRelativeKeyword(lower, ref); res != nil {
		return res
	}
	if res := r.resolveRelativeCount(lower, ref); res != nil {
		return res
	}

	r.log.Debug("no temporal expression recognized", map[string]interface{}{"text": lower})
	return nil
}

func (r *Resolver) resolveExplicit(lower string) *models.TemporalResult {
	for _, re := range rangePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		d1, ok1 := parseDayFirst(m[1])
		d2, ok2 := parseDayFirst(m[2])
		if !ok1 || !ok2 {
			continue
		}
		return &models.TemporalResult{
			Interval: models.NewDateInterval(d1, d2),
			Kind:     models.IntervalRange,
		}
	}

	for _, re := range singlePatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(lower, -1) {
			lit := lower[loc[2]:loc[3]]
			if followedByRangeConnector(lower[loc[3]:]) {
				continue
			}
			d, ok := parseDayFirst(lit)
			if !ok {
				continue
			}
			return &models.TemporalResult{
				Interval: models.DateInterval{Start: d, End: d},
				Kind:     models.IntervalSingle,
			}
		}
	}

	// Last literal resort: collect every date-shaped token.
	var parsed []time.Time
	for _, lit := range anyDate.FindAllString(lower, -1) {
		if d, ok := parseDayFirst(lit); ok {
			parsed = append(parsed, d)
		}
	}
	switch {
	case len(parsed) >= 2:
		return &models.TemporalResult{
			Interval: models.NewDateInterval(parsed[0], parsed[1]),
			Kind:     models.IntervalRange,
		}
	case len(parsed) == 1:
		return &models.TemporalResult{
			Interval: models.DateInterval{Start: parsed[0], End: parsed[0]},
			Kind:     models.IntervalSingle,
		}
	}
	return nil
}

func (r *Resolver) resolveComparison(lower string, ref time.Time) *models.TemporalResult {
	for _, re := range comparisonPatterns {
		m := re.FindString(lower)
		if m == "" {
			continue
		}
		switch {
		case strings.Contains(m, "mois"):
			return comparisonResult(ref, models.UnitMonth, "ce mois", "mois dernier")
		case strings.Contains(m, "semaine"):
			return comparisonResult(ref, models.UnitWeek, "cette semaine", "semaine derniere")
		}
	}
	return nil
}

func comparisonResult(ref time.Time, unit models.PeriodUnit, curName, priorName string) *models.TemporalResult {
	current := periodBounds(ref, unit, 0)
	prior := periodBounds(ref, unit, -1)
	return &models.TemporalResult{
		Interval: current,
		Kind:     models.IntervalComparison,
		Comparison: &models.ComparisonIntervals{
			Current:     current,
			Prior:       prior,
			CurrentName: curName,
			PriorName:   priorName,
		},
	}
}

func (r *Resolver) resolveRelativeKeyword(lower string, ref time.Time) *models.TemporalResult {
	for _, kw := range relativeKeywords {
		if !strings.Contains(lower, kw.phrase) {
			continue
		}
		kind := models.IntervalRange
		if kw.unit == models.UnitDay {
			kind = models.IntervalSingle
		}
		return &models.TemporalResult{
			Interval: periodBounds(ref, kw.unit, kw.offset),
			Kind:     kind,
			Relative: &models.RelativeMeta{Unit: kw.unit, Offset: kw.offset},
		}
	}
	return nil
}

func (r *Resolver) resolveRelativeCount(lower string, ref time.Time) *models.TemporalResult {
	for _, p := range relativeCountPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch p.unit {
		case models.UnitDay:
			d := dateOnly(ref).AddDate(0, 0, -n)
			return &models.TemporalResult{
				Interval: models.DateInterval{Start: d, End: d},
				Kind:     models.IntervalSingle,
				Relative: &models.RelativeMeta{Unit: models.UnitDay, Offset: -n},
			}
		case models.UnitWeek:
			return &models.TemporalResult{
				Interval: periodBounds(ref.AddDate(0, 0, -7*n), models.UnitWeek, 0),
				Kind:     models.IntervalRange,
				Relative: &models.RelativeMeta{Unit: models.UnitWeek, Offset: -n},
			}
		case models.UnitMonth:
			return &models.TemporalResult{
				Interval: periodBounds(ref, models.UnitMonth, -n),
				Kind:     models.IntervalRange,
				Relative: &models.RelativeMeta{Unit: models.UnitMonth, Offset: -n},
			}
		}
	}
	return nil
}

// followedByRangeConnector rejects single-date matches whose trailing text
// starts a range ("01/06/2024 au 30/06/2024" must not resolve as a single
// day). Stands in for a lookahead, which RE2 does not support.
func followedByRangeConnector(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	for _, c := range []string{"au", "jusqu", "-", "a "} {
		if strings.HasPrefix(rest, c) {
			return true
		}
	}
	return rest == "a"
}

// parseDayFirst parses a day-first date literal with /, - or . separators.
// Two-digit years are read as 20xx.
func parseDayFirst(lit string) (time.Time, bool) {
	parts := dateSep.Split(lit, -1)
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package devotion

import (
	_ "embed"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/taibuivan/lectio/internal/bible/structure"
	"github.com/taibuivan/lectio/internal/platform/apperr"
)

// PlanDays is the length of the reading plan.
const PlanDays = 365

//go:embed data/plan.yaml
var planYAML []byte

// Reading is one chapter of a plan day.
type Reading struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

// PlanDay lists the chapters assigned to one day of the plan.
type PlanDay struct {
	Day      int       `json:"day"`
	Month    string    `json:"month"`
	Section  string    `json:"section"`
	Readings []Reading `json:"readings"`
	Passages []string  `json:"passages"`
}

// Section is a themed run of plan days.
type Section struct {
	Month       string `json:"month"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FirstDay    int    `json:"first_day"`
	LastDay     int    `json:"last_day"`
}

type planDocument []struct {
	Month    string `yaml:"month"`
	Sections []struct {
		Title       string     `yaml:"title"`
		Description string     `yaml:"description"`
		Days        [][]string `yaml:"days"`
	} `yaml:"sections"`
}

// Plan is the one-year reading plan: semi-chronological, at most four chapters a
// day, most days paired with a Psalm.
type Plan struct {
	days     []PlanDay
	sections []Section
}

// NewPlan loads the embedded schedule and resolves every passage against lookup.
func NewPlan(lookup *structure.Lookup) (*Plan, error) {
	return ParsePlan(planYAML, lookup)
}

/*
ParsePlan builds a [Plan] from a YAML schedule.

Description: Days are numbered in document order. A passage is "Book N" or
"Book N-M"; book names go through the lookup, so aliases such as "Psalm" resolve.

Returns:
  - *Plan: The resolved plan
  - error: A malformed document, an unknown book or chapter, or a day count other than PlanDays
*/
func ParsePlan(data []byte, lookup *structure.Lookup) (*Plan, error) {
	var document planDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("devotion: decoding plan: %w", err)
	}

	plan := &Plan{}
	for _, month := range document {
		for _, section := range month.Sections {
			first := len(plan.days) + 1

			for _, passages := range section.Days {
				day := PlanDay{
					Day:      len(plan.days) + 1,
					Month:    month.Month,
					Section:  section.Title,
					Passages: passages,
				}
				for _, passage := range passages {
					readings, err := resolvePassage(lookup, passage)
					if err != nil {
						return nil, fmt.Errorf("devotion: plan day %d: %w", day.Day, err)
					}
					day.Readings = append(day.Readings, readings...)
				}
				plan.days = append(plan.days, day)
			}

			plan.sections = append(plan.sections, Section{
				Month:       month.Month,
				Title:       section.Title,
				Description: section.Description,
				FirstDay:    first,
				LastDay:     len(plan.days),
			})
		}
	}

	if len(plan.days) != PlanDays {
		return nil, fmt.Errorf("devotion: plan has %d days, expected %d", len(plan.days), PlanDays)
	}
	return plan, nil
}

var passagePattern = regexp.MustCompile(`^(.+?) (\d+)(?:-(\d+))?$`)

func resolvePassage(lookup *structure.Lookup, passage string) ([]Reading, error) {
	match := passagePattern.FindStringSubmatch(passage)
	if match == nil {
		return nil, fmt.Errorf("malformed passage %q", passage)
	}

	index, found := lookup.BookIndex(match[1])
	if !found {
		return nil, fmt.Errorf("unknown book in %q", passage)
	}
	book, _ := lookup.Book(index)

	first, _ := strconv.Atoi(match[2])
	last := first
	if match[3] != "" {
		last, _ = strconv.Atoi(match[3])
	}
	if last < first || !lookup.ValidChapter(index, first) || !lookup.ValidChapter(index, last) {
		return nil, fmt.Errorf("chapters out of range in %q", passage)
	}

	readings := make([]Reading, 0, last-first+1)
	for chapter := first; chapter <= last; chapter++ {
		readings = append(readings, Reading{Book: book.Name, Chapter: chapter})
	}
	return readings, nil
}

// TotalChapters is the number of chapter readings over the whole plan.
func (plan *Plan) TotalChapters() int {
	total := 0
	for _, day := range plan.days {
		total += len(day.Readings)
	}
	return total
}

// Sections lists the themed sections in plan order.
func (plan *Plan) Sections() []Section {
	return append([]Section{}, plan.sections...)
}

/*
Day returns the readings of a plan day.

Parameters:
  - day: int (1..365)

Returns:
  - PlanDay: The chapters of the day, its passages and the section it belongs to
  - error: VALIDATION_ERROR when day is out of range
*/
func (plan *Plan) Day(day int) (PlanDay, error) {
	if day < 1 || day > len(plan.days) {
		return PlanDay{}, apperr.ValidationError("Invalid plan day", apperr.FieldError{
			Field:   "day",
			Message: fmt.Sprintf("Must be between 1 and %d", PlanDays),
		})
	}

	entry := plan.days[day-1]
	entry.Readings = append([]Reading{}, entry.Readings...)
	entry.Passages = append([]string{}, entry.Passages...)
	return entry, nil
}

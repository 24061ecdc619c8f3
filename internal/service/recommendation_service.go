package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"context"
	"strings"
)

// MatchedCategory is a catalog entity selected by an assessment as an entry
// point into the career graph.
type MatchedCategory struct {
	Kind repository.MatchKind
	ID   uint
}

// CareerGraph is the read side of careers, majors and schools.
type CareerGraph interface {
	CareersFor(ctx context.Context, kind repository.MatchKind, entityID uint) ([]model.Career, error)
	Responsibilities(ctx context.Context, careerIDs []uint) ([]repository.ResponsibilityRow, error)
	MajorSchools(ctx context.Context, careerIDs []uint) ([]repository.MajorSchoolRow, error)
}

type RecommendationService struct {
	Graph CareerGraph
}

func NewRecommendationService(graph CareerGraph) *RecommendationService {
	return &RecommendationService{Graph: graph}
}

// Recommend walks matched entities in order and returns each reachable
// career once, in first-seen order, with its categories and majors.
func (s *RecommendationService) Recommend(ctx context.Context, matched []MatchedCategory) ([]model.RecommendedCareer, error) {
	careers := make([]model.Career, 0)
	seen := make(map[string]bool)
	for _, m := range matched {
		rows, err := s.Graph.CareersFor(ctx, m.Kind, m.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range rows {
			if seen[c.UUID] {
				continue
			}
			seen[c.UUID] = true
			careers = append(careers, c)
		}
	}

	out := make([]model.RecommendedCareer, 0, len(careers))
	if len(careers) == 0 {
		return out, nil
	}

	ids := make([]uint, len(careers))
	for i, c := range careers {
		ids[i] = c.ID
	}
	respRows, err := s.Graph.Responsibilities(ctx, ids)
	if err != nil {
		return nil, err
	}
	majorRows, err := s.Graph.MajorSchools(ctx, ids)
	if err != nil {
		return nil, err
	}

	categories := groupCategories(respRows)
	majors := groupMajors(majorRows)
	for _, c := range careers {
		rc := model.RecommendedCareer{
			CareerUUID:  c.UUID,
			CareerName:  c.Name,
			Description: c.Description,
			Categories:  categories[c.ID],
			Majors:      majors[c.ID],
		}
		if rc.Categories == nil {
			rc.Categories = []model.CareerCategoryDetail{}
		}
		if rc.Majors == nil {
			rc.Majors = []model.MajorDetail{}
		}
		out = append(out, rc)
	}
	return out, nil
}

func groupCategories(rows []repository.ResponsibilityRow) map[uint][]model.CareerCategoryDetail {
	out := make(map[uint][]model.CareerCategoryDetail)
	index := make(map[uint]map[string]int)
	itemised := make(map[uint]bool)

	for _, row := range rows {
		if index[row.CareerID] == nil {
			index[row.CareerID] = make(map[string]int)
		}
		pos, ok := index[row.CareerID][row.CategoryName]
		if !ok {
			out[row.CareerID] = append(out[row.CareerID], model.CareerCategoryDetail{
				CategoryName:     row.CategoryName,
				Responsibilities: []string{},
			})
			pos = len(out[row.CareerID]) - 1
			index[row.CareerID][row.CategoryName] = pos
		}
		detail := &out[row.CareerID][pos]

		if row.Responsibility != nil {
			detail.Responsibilities = appendUnique(detail.Responsibilities, *row.Responsibility)
			continue
		}
		// a link without itemised rows falls back to its summary text
		if !itemised[row.LinkID] {
			itemised[row.LinkID] = true
			for _, line := range splitLines(row.Summary) {
				detail.Responsibilities = appendUnique(detail.Responsibilities, line)
			}
		}
	}
	return out
}

func groupMajors(rows []repository.MajorSchoolRow) map[uint][]model.MajorDetail {
	out := make(map[uint][]model.MajorDetail)
	index := make(map[uint]map[string]int)

	for _, row := range rows {
		if index[row.CareerID] == nil {
			index[row.CareerID] = make(map[string]int)
		}
		pos, ok := index[row.CareerID][row.MajorName]
		if !ok {
			out[row.CareerID] = append(out[row.CareerID], model.MajorDetail{
				MajorName: row.MajorName,
				Schools:   []string{},
			})
			pos = len(out[row.CareerID]) - 1
			index[row.CareerID][row.MajorName] = pos
		}
		if row.SchoolName != nil {
			detail := &out[row.CareerID][pos]
			detail.Schools = appendUnique(detail.Schools, *row.SchoolName)
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

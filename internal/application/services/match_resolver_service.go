package services

import (
	"context"
	"sort"
	"strings"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
)

const (
	matchClassExact     = 0
	matchClassPrefix    = 1
	matchClassSubstring = 2

	defaultMatchRadiusKm    = 10
	defaultCandidateFetches = 25
)

// MatchResolverService resolves an external place candidate to at most one
// internal hospital record. Matching is a case-sensitive substring
// containment on the name combined with a radius filter on the candidate's
// coordinates.
type MatchResolverService struct {
	hospitalRepo repositories.HospitalRepository
	radiusKm     float64
	limit        int
}

// NewMatchResolverService creates a new match resolver. radiusKm and limit
// fall back to defaults when non-positive.
func NewMatchResolverService(hospitalRepo repositories.HospitalRepository, radiusKm float64, limit int) *MatchResolverService {
	if radiusKm <= 0 {
		radiusKm = defaultMatchRadiusKm
	}
	if limit <= 0 {
		limit = defaultCandidateFetches
	}
	return &MatchResolverService{
		hospitalRepo: hospitalRepo,
		radiusKm:     radiusKm,
		limit:        limit,
	}
}

// Resolve returns the best internal record for the candidate, or nil when
// nothing within range contains the candidate's name. A nil result is not
// an error; errors are reserved for store failures.
func (s *MatchResolverService) Resolve(ctx context.Context, candidate *entities.Candidate) (*entities.Hospital, error) {
	name := candidate.DisplayName
	if name == "" {
		return nil, nil
	}

	matches, err := s.hospitalRepo.MatchByNameAndLocation(ctx, repositories.NameMatchParams{
		Name:          name,
		Location:      candidate.Location,
		MaxDistanceKm: s.radiusKm,
		Limit:         s.limit,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// Exact equality beats prefix beats plain containment; within a class a
	// shorter facility name wins. The stable sort keeps the store's primary
	// key order for anything still tied.
	sort.SliceStable(matches, func(i, j int) bool {
		ci, cj := matchClass(matches[i].Name, name), matchClass(matches[j].Name, name)
		if ci != cj {
			return ci < cj
		}
		return len(matches[i].Name) < len(matches[j].Name)
	})

	return matches[0], nil
}

func matchClass(facilityName, candidateName string) int {
	if facilityName == candidateName {
		return matchClassExact
	}
	if strings.HasPrefix(facilityName, candidateName) {
		return matchClassPrefix
	}
	return matchClassSubstring
}

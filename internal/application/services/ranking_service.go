package services

import (
	"math"
	"sort"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
)

// Scoring weights. Availability dominates; capability bonuses layer on top.
const (
	baseAvailabilityWeight = 100.0

	traumaCenterBonus      = 50.0
	traumaLevelExactBonus  = 50.0
	traumaLevelHigherBonus = 40.0
	traumaLevelOneLess     = 20.0
	traumaLevelTwoLess     = 10.0

	equipmentBonus       = 20.0
	specializedBedWeight = 30.0

	waitPerAvailabilityMinutes = 60.0
	minimumWaitMinutes         = 5.0
)

// RankingService scores enriched candidates against a needs profile and
// orders them best first. It is stateless and safe for concurrent use.
type RankingService struct{}

// NewRankingService creates a new ranking service
func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank returns the candidates wrapped with scores and wait estimates,
// sorted by score descending. The sort is stable: candidates with equal
// scores keep their input order. The input slice is not modified.
func (s *RankingService) Rank(candidates []*entities.Candidate, profile *entities.NeedsProfile) []*entities.ScoredCandidate {
	scored := make([]*entities.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		sc := &entities.ScoredCandidate{Candidate: candidate}
		if candidate.Matched() {
			sc.Score = scoreHospital(candidate.InternalData, profile)
			wait := estimateWaitMinutes(candidate.InternalData)
			sc.EstimatedWaitMinutes = &wait
		}
		scored = append(scored, sc)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func scoreHospital(h *entities.Hospital, profile *entities.NeedsProfile) int {
	score := baseAvailabilityWeight * h.BedAvailabilityRatio()

	if profile != nil {
		score += traumaBonus(h, profile)
		score += equipmentBonuses(h, profile)
		score += specializedBedBonuses(h, profile)
	}

	return int(math.Round(score))
}

func traumaBonus(h *entities.Hospital, profile *entities.NeedsProfile) float64 {
	bonus := 0.0

	if profile.IsTrauma && h.IsTraumaCenter {
		bonus += traumaCenterBonus
	}

	// Level 1 is the highest designation, so a facility with a lower level
	// number is more capable than recommended.
	if profile.RecommendedTraumaLevel != nil && h.TraumaLevel > 0 {
		recommended := *profile.RecommendedTraumaLevel
		switch {
		case h.TraumaLevel == recommended:
			bonus += traumaLevelExactBonus
		case h.TraumaLevel < recommended:
			bonus += traumaLevelHigherBonus
		case h.TraumaLevel == recommended+1:
			bonus += traumaLevelOneLess
		case h.TraumaLevel == recommended+2:
			bonus += traumaLevelTwoLess
		}
	}

	return bonus
}

func equipmentBonuses(h *entities.Hospital, profile *entities.NeedsProfile) float64 {
	bonus := 0.0
	if profile.NeedsMRI && h.HasMRI {
		bonus += equipmentBonus
	}
	if profile.NeedsCTScan && h.HasCT {
		bonus += equipmentBonus
	}
	if profile.NeedsUltrasound && h.HasUltrasound {
		bonus += equipmentBonus
	}
	if profile.NeedsPetCT && h.HasPetCT {
		bonus += equipmentBonus
	}
	return bonus
}

func specializedBedBonuses(h *entities.Hospital, profile *entities.NeedsProfile) float64 {
	bonus := 0.0
	if profile.NeedsSurgicalICU && h.ICUMedSurgBeds > 0 {
		bonus += specializedBedWeight * entities.AvailabilityRatio(h.ICUMedSurgBeds, h.ICUMedSurgBedsLoad)
	}
	if profile.NeedsPediatricICU && h.ICUPediatricBeds > 0 {
		bonus += specializedBedWeight * entities.AvailabilityRatio(h.ICUPediatricBeds, h.ICUPediatricBedsLoad)
	}
	if profile.NeedsNeonatalICU && h.ICUNeonatalBeds > 0 {
		bonus += specializedBedWeight * entities.AvailabilityRatio(h.ICUNeonatalBeds, h.ICUNeonatalBedsLoad)
	}
	return bonus
}

func estimateWaitMinutes(h *entities.Hospital) int {
	minutes := h.BedAvailabilityRatio() * waitPerAvailabilityMinutes
	if minutes < minimumWaitMinutes {
		minutes = minimumWaitMinutes
	}
	return int(math.Round(minutes))
}

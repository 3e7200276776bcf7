package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// SimilarSeason pairs a candidate team season with its normalized distance
// from the subject.
type SimilarSeason struct {
	Season   *TeamSeason
	Distance float64
}

// SimilarSeasons runs nearest-neighbor search over every finished team
// season, embedding each as {win_pct, average score, stdev, expected wins}
// z-scored against the league-wide corpus.
func (s *SeasonService) SimilarSeasons(ctx context.Context, teamID int64, year, limit int) ([]SimilarSeason, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.SimilarSeasons")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}

	subject, err := s.TeamSeason(ctx, teamID, year, 0, false)
	if err != nil {
		return nil, err
	}

	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}

	corpus := make([]*TeamSeason, 0)
	for _, y := range years {
		season, err := s.Season(ctx, y, 0, false)
		if err != nil {
			return nil, err
		}
		if season.IsPartial {
			continue
		}
		corpus = append(corpus, season.Standings...)
	}
	if len(corpus) < 2 {
		return nil, fmt.Errorf("%w: not enough finished seasons to compare", ErrInvalidInput)
	}

	mean, stdev := corpusMoments(corpus)
	subjectVec := normalize(subject.FeatureVector(), mean, stdev)

	out := make([]SimilarSeason, 0, len(corpus))
	for _, candidate := range corpus {
		if candidate.TeamID == subject.TeamID && candidate.Year == subject.Year {
			continue
		}
		vec := normalize(candidate.FeatureVector(), mean, stdev)
		dist := 0.0
		for i := range vec {
			d := vec[i] - subjectVec[i]
			dist += d * d
		}
		out = append(out, SimilarSeason{Season: candidate, Distance: math.Sqrt(dist)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func corpusMoments(corpus []*TeamSeason) (mean, stdev [4]float64) {
	n := float64(len(corpus))
	for _, ts := range corpus {
		vec := ts.FeatureVector()
		for i, v := range vec {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	for _, ts := range corpus {
		vec := ts.FeatureVector()
		for i, v := range vec {
			d := v - mean[i]
			stdev[i] += d * d
		}
	}
	for i := range stdev {
		stdev[i] = math.Sqrt(stdev[i] / n)
	}
	return mean, stdev
}

func normalize(vec, mean, stdev [4]float64) [4]float64 {
	var out [4]float64
	for i := range vec {
		if stdev[i] == 0 {
			continue
		}
		out[i] = (vec[i] - mean[i]) / stdev[i]
	}
	return out
}

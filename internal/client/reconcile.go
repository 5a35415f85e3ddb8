package client

import (
	"sort"
	"time"

	"github.com/user/feelreel/internal/model"
)

// Reconcile 在本地记录一次投票后的结果，返回新列表，不修改 movies
//
// 排序规则与服务端一致：
//   - date-added 倒序：按最新评价时间倒序
//   - match：按匹配度，方向与当前排序一致
//   - 其余排序不受投票影响，保持原顺序
//
// 时间或匹配度相同时按 ID 正序。voteWasCast 为 false 或电影不在列表中时原样返回。
func Reconcile(movies []model.MovieMatch, order model.Order, movieID int64, percentage float64, voteWasCast bool, now time.Time) []model.MovieMatch {
	if !voteWasCast {
		return movies
	}

	idx := -1
	for i := range movies {
		if movies[i].ID == movieID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return movies
	}

	out := make([]model.MovieMatch, len(movies))
	copy(out, movies)
	out[idx].Percentage = percentage
	out[idx].LatestReviewDate = model.ReviewTime{Time: now.UTC()}

	if less := lessFor(order); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func lessFor(order model.Order) func(a, b model.MovieMatch) bool {
	switch {
	case order.By == model.OrderDateAdded && order.Descending():
		return func(a, b model.MovieMatch) bool {
			if !a.LatestReviewDate.Equal(b.LatestReviewDate.Time) {
				return a.LatestReviewDate.After(b.LatestReviewDate.Time)
			}
			return a.ID < b.ID
		}
	case order.By == model.OrderMatch:
		desc := order.Descending()
		return func(a, b model.MovieMatch) bool {
			if a.Percentage != b.Percentage {
				return (a.Percentage > b.Percentage) == desc
			}
			return a.ID < b.ID
		}
	}
	return nil
}

// MatchAfterVote 投票后电影在 emotion 下的匹配度
func MatchAfterVote(detail *model.MovieDetail, emotion string, votedEmotionID int64) float64 {
	var matching int64
	for _, e := range detail.Emotions {
		if e.Name == emotion {
			matching = e.Count
			if e.ID == votedEmotionID {
				matching++
			}
		}
	}
	return float64(matching) / float64(detail.TotalReviews()+1)
}

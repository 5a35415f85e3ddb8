package client

import (
	"time"

	"github.com/user/feelreel/internal/model"
)

// ListState 按情绪浏览的列表状态，只通过 Reduce 变更
type ListState struct {
	Emotion string
	Order   model.Order
	Movies  []model.MovieMatch
	Loading bool
	Err     error
}

// NewListState 初始状态，使用默认排序
func NewListState(emotion string) ListState {
	return ListState{
		Emotion: emotion,
		Order:   model.DefaultOrder,
		Movies:  []model.MovieMatch{},
		Loading: true,
	}
}

// Action 状态变更
type Action interface {
	isAction()
}

// Loaded 列表加载完成
type Loaded struct {
	Emotion string
	Order   model.Order
	Movies  []model.MovieMatch
}

// LoadFailed 列表加载失败，保留已有数据
type LoadFailed struct {
	Err error
}

// OrderChanged 切换排序，需要重新加载
type OrderChanged struct {
	Order model.Order
}

// EmotionChanged 切换情绪，清空列表并重新加载
type EmotionChanged struct {
	Emotion string
}

// RatingRecorded 一次评价已提交
type RatingRecorded struct {
	MovieID     int64
	Percentage  float64
	VoteWasCast bool
	At          time.Time
}

func (Loaded) isAction()         {}
func (LoadFailed) isAction()     {}
func (OrderChanged) isAction()   {}
func (EmotionChanged) isAction() {}
func (RatingRecorded) isAction() {}

// Reduce 返回应用 action 之后的新状态
func Reduce(st ListState, action Action) ListState {
	switch a := action.(type) {
	case Loaded:
		// 过期的响应（情绪或排序已切换）直接丢弃
		if a.Emotion != st.Emotion || a.Order != st.Order {
			return st
		}
		st.Movies = a.Movies
		if st.Movies == nil {
			st.Movies = []model.MovieMatch{}
		}
		st.Loading = false
		st.Err = nil
	case LoadFailed:
		st.Loading = false
		st.Err = a.Err
	case OrderChanged:
		if a.Order == st.Order {
			return st
		}
		st.Order = a.Order
		st.Loading = true
		st.Err = nil
	case EmotionChanged:
		if a.Emotion == st.Emotion {
			return st
		}
		st.Emotion = a.Emotion
		st.Movies = []model.MovieMatch{}
		st.Loading = true
		st.Err = nil
	case RatingRecorded:
		st.Movies = Reconcile(st.Movies, st.Order, a.MovieID, a.Percentage, a.VoteWasCast, a.At)
	}
	return st
}

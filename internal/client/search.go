package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/user/feelreel/internal/model"
)

// SearchDelay 输入停止后多久发起搜索
const SearchDelay = 500 * time.Millisecond

// SearchFunc 执行一次搜索
type SearchFunc func(ctx context.Context, query string) ([]model.TMDBSearchResult, error)

// SearchResult 一次搜索的结果
type SearchResult struct {
	Query   string
	Results []model.TMDBSearchResult
	Err     error
}

// Searcher 边输入边搜索：合并连续输入，只对最后一次输入发起请求
// 新请求发出时取消仍在进行的旧请求，旧请求的结果不会回调
type Searcher struct {
	search   SearchFunc
	onResult func(SearchResult)
	delay    time.Duration

	mu       sync.Mutex
	wg       sync.WaitGroup
	timer    *time.Timer
	cancel   context.CancelFunc
	seq      uint64
	closed   bool
	rootCtx  context.Context
	stopRoot context.CancelFunc
}

// NewSearcher 创建搜索器，delay <= 0 时使用 SearchDelay
// onResult 在后台 goroutine 中调用，不能在其中调用 Close
func NewSearcher(search SearchFunc, onResult func(SearchResult), delay time.Duration) *Searcher {
	if delay <= 0 {
		delay = SearchDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Searcher{
		search:   search,
		onResult: onResult,
		delay:    delay,
		rootCtx:  ctx,
		stopRoot: cancel,
	}
}

// Input 记录一次输入，重新开始计时
func (s *Searcher) Input(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.stopTimerLocked()
	s.seq++
	seq := s.seq
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() { s.fire(seq, query) })
}

// Close 取消计时与进行中的请求，返回后不会再有回调
func (s *Searcher) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.stopRoot()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Searcher) stopTimerLocked() {
	// Stop 成功说明回调不会再执行，由这里抵消 Input 中的 Add
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.timer = nil
}

func (s *Searcher) fire(seq uint64, query string) {
	defer s.wg.Done()

	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.rootCtx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	var res SearchResult
	res.Query = query
	if strings.TrimSpace(query) == "" {
		res.Results = []model.TMDBSearchResult{}
	} else {
		res.Results, res.Err = s.search(ctx, query)
	}

	s.mu.Lock()
	stale := s.closed || seq != s.seq || ctx.Err() != nil
	s.mu.Unlock()
	if stale {
		return
	}
	s.onResult(res)
}

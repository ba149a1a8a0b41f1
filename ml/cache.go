package ml

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPredictor memoizes predictions by encoded row. The wrapped model is
// immutable, so a cached result is always what the model would return.
type CachedPredictor struct {
	next  Predictor
	cache *lru.Cache[string, Prediction]
}

func NewCachedPredictor(next Predictor, size int) (*CachedPredictor, error) {
	cache, err := lru.New[string, Prediction](size)
	if err != nil {
		return nil, errors.Wrap(err, "create prediction cache")
	}
	return &CachedPredictor{next: next, cache: cache}, nil
}

func (p *CachedPredictor) Classify(row []float64) (Prediction, error) {
	key := rowKey(row)
	if pred, ok := p.cache.Get(key); ok {
		pred.Cached = true
		return pred, nil
	}
	pred, err := p.next.Classify(row)
	if err != nil {
		return Prediction{}, err
	}
	p.cache.Add(key, pred)
	return pred, nil
}

func (p *CachedPredictor) Len() int {
	return p.cache.Len()
}

func rowKey(row []float64) string {
	var b strings.Builder
	for i, v := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

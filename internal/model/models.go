package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Emotion 情绪（参考数据，名称唯一且小写）
type Emotion struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"emotion" gorm:"column:emotion;uniqueIndex;not null"`
}

// Review 一次投票：某部电影在某个时间点被标记为某种情绪（只追加）
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	MovieID   int64     `json:"movie_id" gorm:"not null;index"`
	EmotionID int64     `json:"emotion_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"review_date" gorm:"column:review_date;index"`

	Movie   Movie   `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Emotion Emotion `json:"-" gorm:"foreignKey:EmotionID"`
}

// reviewTimeFormats sqlite 驱动以文本返回聚合时间时可能出现的格式
var reviewTimeFormats = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ReviewTime 评价时间
// MIN/MAX 等聚合结果在 sqlite 中没有声明类型，驱动会返回字符串，这里统一解析
type ReviewTime struct {
	time.Time
}

// Scan 实现 sql.Scanner
func (t *ReviewTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("无法解析评价时间类型: %T", value)
}

// Value 实现 driver.Valuer
func (t ReviewTime) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *ReviewTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range reviewTimeFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("无法解析评价时间: %q", s)
}

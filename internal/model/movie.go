package model

// Movie 电影（ID 为外部电影数据库的 ID，首次评价时创建，之后不再更新）
type Movie struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title       string `json:"title" gorm:"not null"`
	PosterPath  string `json:"poster_path"`
	Runtime     int    `json:"runtime"`
	ReleaseYear int    `json:"release_year" gorm:"index"`
}

// Person 人物（导演/演员），ID 为外部 ID
type Person struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	FullName string `json:"full_name" gorm:"not null"`
}

// TableName 指定表名，避免 gorm 复数化为 people
func (Person) TableName() string {
	return "persons"
}

// CreditOrderDirector 导演的署名顺序，演员从 1 开始
const CreditOrderDirector = 0

// MoviePerson 电影与人物的关联
type MoviePerson struct {
	MovieID     int64 `json:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	PersonID    int64 `json:"person_id" gorm:"primaryKey;autoIncrement:false"`
	CreditOrder int   `json:"credit_order" gorm:"not null;index"`
	Position    int   `json:"position" gorm:"not null"` // 插入顺序

	Movie  Movie  `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Person Person `json:"-" gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE"`
}

// TableName 指定表名
func (MoviePerson) TableName() string {
	return "movie_persons"
}

// MovieMatch 情绪列表中的一条记录
type MovieMatch struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	PosterPath       string     `json:"poster_path"`
	Runtime          int        `json:"runtime"`
	ReleaseYear      int        `json:"release_year"`
	Percentage       float64    `json:"percentage"` // 0-1
	FirstReviewDate  ReviewTime `json:"first_review_date"`
	LatestReviewDate ReviewTime `json:"latest_review_date"`
}

// EmotionCount 某部电影在某个情绪下的评价数
type EmotionCount struct {
	ID    int64  `json:"id"`
	Name  string `json:"emotion" gorm:"column:emotion"`
	Count int64  `json:"count"`
}

// MovieDetail 电影详情
type MovieDetail struct {
	Movie
	Emotions  []EmotionCount `json:"emotions"`
	Directors []string       `json:"directors"`
	Cast      []string       `json:"cast"`
}

// TotalReviews 所有情绪的评价总数
func (d *MovieDetail) TotalReviews() int64 {
	var total int64
	for _, e := range d.Emotions {
		total += e.Count
	}
	return total
}

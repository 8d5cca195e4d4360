package dto

type LevelDTO struct {
	ID    uint   `json:"id"`
	Order int    `json:"order"`
	Title string `json:"title"`
	Free  bool   `json:"free"`
}

type PathOverviewDTO struct {
	ID              uint       `json:"id"`
	CategoryID      uint       `json:"category_id"`
	Title           string     `json:"title"`
	DescriptionHTML string     `json:"description_html"`
	Levels          []LevelDTO `json:"levels"`
}

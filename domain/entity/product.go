package entity

type Product struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Weight     int    `json:"weight"`
	Price      int    `json:"price"`
	Image      string `json:"image"`
}

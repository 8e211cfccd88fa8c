package entity

type Hotel struct {
	Base
	Name          string  `db:"name"`
	Description   *string `db:"description"`
	City          string  `db:"city"`
	Address       string  `db:"address"`
	PricePerNight float64 `db:"price_per_night"`
	Rating        float64 `db:"rating"`
	Stars         int     `db:"stars"`
	IsActive      bool    `db:"is_active"`
}

func (h *Hotel) Ref() BookableRef {
	return BookableRef{Kind: BookableHotel, ID: h.ID}
}

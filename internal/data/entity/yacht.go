package entity

type Yacht struct {
	Base
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Location    string  `db:"location"`
	PricePerDay float64 `db:"price_per_day"`
	Rating      float64 `db:"rating"`
	Capacity    int     `db:"capacity"`
	Length      float64 `db:"length"`
	CrewSize    int     `db:"crew_size"`
	IsActive    bool    `db:"is_active"`
}

func (y *Yacht) Ref() BookableRef {
	return BookableRef{Kind: BookableYacht, ID: y.ID}
}

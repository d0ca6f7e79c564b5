package entity

type Actor struct {
	BaseNoDelete
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	ImagePath *string `db:"image_path"`
}

func (a *Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}

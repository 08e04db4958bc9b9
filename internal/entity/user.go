package entity

// BaseRating is assigned to every account on first login.
const BaseRating = 1000

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

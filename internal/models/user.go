package models

type UserDoc struct {
	UserID       int    `json:"userId" bson:"userId"`
	Username     string `json:"username" bson:"username"`
	PasswordHash string `json:"passwordHash" bson:"passwordHash"`
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
}

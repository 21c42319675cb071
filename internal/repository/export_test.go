package repository

type SurrealRecord = surrealRecord

var (
	FromSurreal = fromSurreal
	ToSurrealID = toSurrealID
)

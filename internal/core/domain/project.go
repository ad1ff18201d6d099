package domain

import "time"

// DefaultProjectStatus is the status a new project form starts with.
const DefaultProjectStatus = "Planning"

// Project is a client engagement tasks can be linked to. Status is free text.
type Project struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Status      string    `json:"status" bson:"status"`
	ClientName  string    `json:"client_name" bson:"client_name"`
	ClientEmail string    `json:"client_email" bson:"client_email"`
	Budget      float64   `json:"budget" bson:"budget"`
	Deadline    time.Time `json:"deadline" bson:"deadline"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

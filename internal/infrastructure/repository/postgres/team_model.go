package postgres

import "time"

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Short     string    `db:"short_name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

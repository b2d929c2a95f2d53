package repo

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("foreign key violation")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo { return &GormRepo{DB: db} }

// translate maps driver and gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case "23503":
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		}
	}
	return err
}

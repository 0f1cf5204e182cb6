package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"PilatesStudioManager/internal/models"

	"modernc.org/sqlite"
)

var ErrStudioNotFound = errors.New("studio not found")

// StudioPatch carries only the fields present in an update request.
// A nil field is left untouched by UpdateStudio.
type StudioPatch struct {
	Name    *string `json:"name"`
	CNPJ    *string `json:"cnpj"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func scanStudio(row *sql.Row) (models.Studio, error) {
	var studio models.Studio
	var nullName, nullCNPJ, nullAddress, nullPhone sql.NullString

	err := row.Scan(&studio.ID, &studio.OwnerID, &nullName, &nullCNPJ, &nullAddress, &nullPhone)
	if err != nil {
		return studio, err
	}

	// absent column values surface as "" to callers, never NULL
	if nullName.Valid {
		studio.Name = nullName.String
	}
	if nullCNPJ.Valid {
		studio.CNPJ = nullCNPJ.String
	}
	if nullAddress.Valid {
		studio.Address = nullAddress.String
	}
	if nullPhone.Valid {
		studio.Phone = nullPhone.String
	}
	return studio, nil
}

func (s *Store) selectStudioByOwner(ownerID int64) (models.Studio, error) {
	row := s.db.QueryRow(
		"SELECT id, owner_id, name, cnpj, address, phone FROM studios WHERE owner_id = ?",
		ownerID,
	)
	return scanStudio(row)
}

// GetStudioByOwner returns the studio record for ownerID, creating a blank
// one on first read. A lazy-create that loses the race to a concurrent first
// read hits the owner_id unique constraint and re-reads the winner's row.
func (s *Store) GetStudioByOwner(ownerID int64) (models.Studio, error) {
	studio, err := s.selectStudioByOwner(ownerID)
	if err == nil {
		return studio, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Studio{}, fmt.Errorf("query studio: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO studios(owner_id, name, cnpj, address, phone) VALUES(?, '', '', '', '')",
		ownerID,
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == 2067 {
			studio, err := s.selectStudioByOwner(ownerID)
			if err != nil {
				return models.Studio{}, fmt.Errorf("query studio: %w", err)
			}
			return studio, nil
		}
		return models.Studio{}, fmt.Errorf("create studio: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Studio{}, fmt.Errorf("create studio: %w", err)
	}
	return models.Studio{ID: id, OwnerID: ownerID}, nil
}

// UpdateStudio applies only the fields set in patch to the row owned by
// ownerID and returns the updated record. Unlike GetStudioByOwner it never
// creates a row: a missing record is ErrStudioNotFound.
func (s *Store) UpdateStudio(ownerID int64, patch StudioPatch) (models.Studio, error) {
	var sets []string
	var args []interface{}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.CNPJ != nil {
		sets = append(sets, "cnpj = ?")
		args = append(args, *patch.CNPJ)
	}
	if patch.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *patch.Address)
	}
	if patch.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *patch.Phone)
	}

	if len(sets) == 0 {
		studio, err := s.selectStudioByOwner(ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Studio{}, ErrStudioNotFound
		}
		if err != nil {
			return models.Studio{}, fmt.Errorf("query studio: %w", err)
		}
		return studio, nil
	}

	args = append(args, ownerID)
	query := "UPDATE studios SET " + strings.Join(sets, ", ") + " WHERE owner_id = ?"

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return models.Studio{}, fmt.Errorf("update studio: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Studio{}, fmt.Errorf("update studio: %w", err)
	}
	if affected == 0 {
		return models.Studio{}, ErrStudioNotFound
	}

	studio, err := s.selectStudioByOwner(ownerID)
	if err != nil {
		return models.Studio{}, fmt.Errorf("reload studio: %w", err)
	}
	return studio, nil
}

package contract

import (
	"context"
	"fmt"
	"time"

	"hrms/internal/platform/db"
)

const numberConstraint = "contracts_number_key"

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

const contractColumns = `id, employee_id, contract_number, contract_type, start_date, end_date, salary, status,
       signed_date, signed_by, note, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (Contract, error) {
	var c Contract
	err := row.Scan(&c.ID, &c.EmployeeID, &c.ContractNumber, &c.ContractType, &c.StartDate, &c.EndDate, &c.Salary,
		&c.Status, &c.SignedDate, &c.SignedBy, &c.Note, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) Insert(ctx context.Context, c Contract) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO contracts (id, employee_id, contract_number, contract_type, start_date, end_date, salary, status, note, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
  `, c.ID, c.EmployeeID, c.ContractNumber, c.ContractType, c.StartDate, c.EndDate, c.Salary, c.Status, c.Note, c.CreatedAt)
	if db.IsUniqueViolation(err, numberConstraint) {
		return ErrNumberTaken.WithState(c.ContractNumber)
	}
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *Store) ContractNumbers(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT contract_number FROM contracts WHERE contract_number LIKE 'HD%'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, err
		}
		out = append(out, number)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Contract, error) {
	c, err := scanContract(s.DB.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return Contract{}, ErrContractNotFound
	}
	if err != nil {
		return Contract{}, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (s *Store) Update(ctx context.Context, c Contract, from string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts
    SET employee_id = $3, contract_type = $4, start_date = $5, end_date = $6, salary = $7,
        status = $8, signed_date = $9, signed_by = $10, note = $11, updated_at = $12
    WHERE id = $1 AND status = $2
  `, c.ID, from, c.EmployeeID, c.ContractType, c.StartDate, c.EndDate, c.Salary,
		c.Status, c.SignedDate, c.SignedBy, c.Note, c.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("update contract: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ExpireEndedThrough(ctx context.Context, lastDay, now time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE contracts
    SET status = 'expired', updated_at = $2
    WHERE status = 'active' AND end_date IS NOT NULL AND end_date <= $1
  `, lastDay, now)
	if err != nil {
		return 0, fmt.Errorf("expire contracts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeletePending(ctx context.Context, id string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM contracts WHERE id = $1 AND status = 'pending_signature'`, id)
	if err != nil {
		return false, fmt.Errorf("delete contract: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) List(ctx context.Context, filter Filter) (ListResult, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ContractType != "" {
		args = append(args, filter.ContractType)
		where += fmt.Sprintf(" AND contract_type = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM contracts"+where, args...).Scan(&total); err != nil {
		return ListResult{}, err
	}
	query := "SELECT " + contractColumns + " FROM contracts" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return ListResult{}, err
	}
	defer rows.Close()

	out := ListResult{Items: []Contract{}, Total: total}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return ListResult{}, err
		}
		out.Items = append(out.Items, c)
	}
	return out, rows.Err()
}

package repository

import (
	"context"
	"errors"

	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrUnknownPartyType is returned for party types outside customer/supplier/employee.
var ErrUnknownPartyType = errors.New("unknown party type")

// Party is the common read shape shared by customers, suppliers and employees.
type Party struct {
	ID            uuid.UUID
	Name          string
	Phone         *string
	Address       *string
	Role          *string
	MonthlySalary *decimal.Decimal
	Balance       decimal.Decimal
	Active        bool
}

// PartyRepository unifies access to the three party tables. The party type
// discriminator picks the table; balances are only ever touched with
// UpdateBalanceTx inside the transaction that appends the ledger row.
type PartyRepository interface {
	Create(ctx context.Context, partyType string, p *Party) error
	FindByID(ctx context.Context, partyType string, id uuid.UUID) (*Party, error)
	List(ctx context.Context, partyType string, includeInactive bool) ([]Party, error)
	Update(ctx context.Context, partyType string, p *Party) error
	Delete(ctx context.Context, partyType string, id uuid.UUID) error
	UpdateBalanceTx(tx *gorm.DB, partyType string, id uuid.UUID, delta decimal.Decimal) error
	SumPositiveBalances(ctx context.Context, partyType string) (decimal.Decimal, error)
	DB() *gorm.DB
}

type partyRepo struct{ db *gorm.DB }

func NewPartyRepository(db *gorm.DB) PartyRepository { return &partyRepo{db: db} }

func (r *partyRepo) DB() *gorm.DB { return r.db }

func tableFor(partyType string) (string, error) {
	switch partyType {
	case model.PartyCustomer:
		return "customers", nil
	case model.PartySupplier:
		return "suppliers", nil
	case model.PartyEmployee:
		return "employees", nil
	default:
		return "", ErrUnknownPartyType
	}
}

func (r *partyRepo) Create(ctx context.Context, partyType string, p *Party) error {
	switch partyType {
	case model.PartyCustomer:
		c := model.Customer{Name: p.Name, Phone: p.Phone, Address: p.Address, Balance: p.Balance, Active: true}
		if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
			return err
		}
		p.ID = c.ID
		return nil
	case model.PartySupplier:
		s := model.Supplier{Name: p.Name, Phone: p.Phone, Address: p.Address, Balance: p.Balance, Active: true}
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return err
		}
		p.ID = s.ID
		return nil
	case model.PartyEmployee:
		e := model.Employee{Name: p.Name, Phone: p.Phone, Role: p.Role, Balance: p.Balance, Active: true}
		if p.MonthlySalary != nil {
			e.MonthlySalary = *p.MonthlySalary
		}
		if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
			return err
		}
		p.ID = e.ID
		return nil
	}
	return ErrUnknownPartyType
}

func (r *partyRepo) FindByID(ctx context.Context, partyType string, id uuid.UUID) (*Party, error) {
	switch partyType {
	case model.PartyCustomer:
		var c model.Customer
		if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
			return nil, err
		}
		return &Party{ID: c.ID, Name: c.Name, Phone: c.Phone, Address: c.Address, Balance: c.Balance, Active: c.Active}, nil
	case model.PartySupplier:
		var s model.Supplier
		if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
			return nil, err
		}
		return &Party{ID: s.ID, Name: s.Name, Phone: s.Phone, Address: s.Address, Balance: s.Balance, Active: s.Active}, nil
	case model.PartyEmployee:
		var e model.Employee
		if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
			return nil, err
		}
		salary := e.MonthlySalary
		return &Party{ID: e.ID, Name: e.Name, Phone: e.Phone, Role: e.Role, MonthlySalary: &salary, Balance: e.Balance, Active: e.Active}, nil
	}
	return nil, ErrUnknownPartyType
}

func (r *partyRepo) List(ctx context.Context, partyType string, includeInactive bool) ([]Party, error) {
	table, err := tableFor(partyType)
	if err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Table(table)
	if !includeInactive {
		q = q.Where("active = true")
	}

	switch partyType {
	case model.PartyEmployee:
		var rows []model.Employee
		if err := q.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		parties := make([]Party, 0, len(rows))
		for _, e := range rows {
			salary := e.MonthlySalary
			parties = append(parties, Party{ID: e.ID, Name: e.Name, Phone: e.Phone, Role: e.Role, MonthlySalary: &salary, Balance: e.Balance, Active: e.Active})
		}
		return parties, nil
	case model.PartySupplier:
		var rows []model.Supplier
		if err := q.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		parties := make([]Party, 0, len(rows))
		for _, s := range rows {
			parties = append(parties, Party{ID: s.ID, Name: s.Name, Phone: s.Phone, Address: s.Address, Balance: s.Balance, Active: s.Active})
		}
		return parties, nil
	default:
		var rows []model.Customer
		if err := q.Order("name ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		parties := make([]Party, 0, len(rows))
		for _, c := range rows {
			parties = append(parties, Party{ID: c.ID, Name: c.Name, Phone: c.Phone, Address: c.Address, Balance: c.Balance, Active: c.Active})
		}
		return parties, nil
	}
}

func (r *partyRepo) Update(ctx context.Context, partyType string, p *Party) error {
	table, err := tableFor(partyType)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"name":    p.Name,
		"phone":   p.Phone,
		"address": p.Address,
	}
	if partyType == model.PartyEmployee {
		delete(updates, "address")
		updates["role"] = p.Role
		if p.MonthlySalary != nil {
			updates["monthly_salary"] = *p.MonthlySalary
		}
	}
	return r.db.WithContext(ctx).Table(table).Where("id = ?", p.ID).Updates(updates).Error
}

func (r *partyRepo) Delete(ctx context.Context, partyType string, id uuid.UUID) error {
	table, err := tableFor(partyType)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(nil).Error
}

func (r *partyRepo) UpdateBalanceTx(tx *gorm.DB, partyType string, id uuid.UUID, delta decimal.Decimal) error {
	table, err := tableFor(partyType)
	if err != nil {
		return err
	}
	return tx.Table(table).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *partyRepo) SumPositiveBalances(ctx context.Context, partyType string) (decimal.Decimal, error) {
	table, err := tableFor(partyType)
	if err != nil {
		return decimal.Zero, err
	}
	var sum decimal.NullDecimal
	err = r.db.WithContext(ctx).Table(table).
		Select("SUM(balance)").Where("balance > 0 AND active = true").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

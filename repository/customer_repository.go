package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Vishnukant2275/easyorderin/entity"

	"gorm.io/gorm"
)

// CustomerRepository is the customer directory keyed by phone number.
type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.DB.WithContext(ctx).Where("phone = ?", phone).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOrCreateByPhone returns the customer for phone, creating it when absent.
// A non-empty name replaces the stored display name.
func (r *CustomerRepository) FindOrCreateByPhone(ctx context.Context, phone, name string) (*entity.Customer, error) {
	name = strings.TrimSpace(name)

	c, err := r.FindByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = &entity.Customer{Phone: phone, Name: name}
		err = r.DB.WithContext(ctx).Create(c).Error
		if err == nil {
			return c, nil
		}
		// lost a concurrent insert for the same phone
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		c, err = r.FindByPhone(ctx, phone)
	}
	if err != nil {
		return nil, err
	}

	if name != "" && name != c.Name {
		if err := r.DB.WithContext(ctx).Model(c).Update("name", name).Error; err != nil {
			return nil, err
		}
		c.Name = name
	}
	return c, nil
}

// FindByIDs loads customers keyed by id.
func (r *CustomerRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]entity.Customer, error) {
	out := make(map[uint]entity.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []entity.Customer
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

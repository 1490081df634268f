package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/teafarmpro/teafarm-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence for farmers and their employees. Farmer
// lookups by email/phone are global (they back login); employee reads and
// writes are tenant-scoped except the email lookup used for login.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateFarmer(ctx context.Context, farmer *models.Farmer) (*models.Farmer, error)
	FindFarmerByID(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	FindFarmerByEmail(ctx context.Context, email string) (*models.Farmer, error)
	FindFarmerByPhone(ctx context.Context, phone string) (*models.Farmer, error)
	UpdateFarmer(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	FindEmployeeByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	FindEmployeeByPhone(ctx context.Context, farmerID uuid.UUID, phone string) (*models.Employee, error)
	ListEmployees(ctx context.Context, farmerID uuid.UUID) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error
	DeleteEmployee(ctx context.Context, farmerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an identity repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFarmer(ctx context.Context, farmer *models.Farmer) (*models.Farmer, error) {
	if err := r.db.WithContext(ctx).Create(farmer).Error; err != nil {
		return nil, err
	}
	return farmer, nil
}

func (r *repository) FindFarmerByID(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&farmer).Error
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) FindFarmerByEmail(ctx context.Context, email string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&farmer).Error
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) FindFarmerByPhone(ctx context.Context, phone string) (*models.Farmer, error) {
	var farmer models.Farmer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&farmer).Error
	if err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) UpdateFarmer(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Farmer{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *repository) FindEmployeeByID(ctx context.Context, farmerID, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) FindEmployeeByPhone(ctx context.Context, farmerID uuid.UUID, phone string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("farmer_id = ? AND phone = ?", farmerID, phone).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) ListEmployees(ctx context.Context, farmerID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("name ASC").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repository) UpdateEmployee(ctx context.Context, farmerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteEmployee(ctx context.Context, farmerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("farmer_id = ? AND id = ?", farmerID, id).
		Delete(&models.Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

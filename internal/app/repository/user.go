package repository

import (
	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/role"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(login, password, fullName, email, company string, userRole int) (*ds.User, error) {
	user := ds.User{
		Login:    login,
		Password: password,
		FullName: fullName,
		Email:    email,
		Company:  company,
		Role:     userRole,
	}

	err := r.db.Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *Repository) UpdateUserProfile(id uint, fullName, email, company, password string) error {
	updates := map[string]interface{}{}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	if email != "" {
		updates["email"] = email
	}
	if company != "" {
		updates["company"] = company
	}
	if password != "" {
		updates["password"] = password
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Repository) UpdateUserAvatar(id uint, avatarKey string) error {
	return r.db.Model(&ds.User{}).Where("id = ?", id).Update("avatar_key", avatarKey).Error
}

// GetClients возвращает пользователей с ролью клиента (для выдачи документов)
func (r *Repository) GetClients() ([]ds.User, error) {
	var clients []ds.User
	err := r.db.Where("role = ?", int(role.Client)).Order("full_name asc").Find(&clients).Error
	return clients, err
}

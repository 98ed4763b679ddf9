package ds

// Таблица пользователей портала
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Login     string `gorm:"type:varchar(50);unique;not null"`
	Password  string `gorm:"type:varchar(255);not null"`
	Role      int    `gorm:"type:int;default:0;not null"` // 0 - клиент, 1 - сотрудник, 2 - админ
	Email     string `gorm:"type:varchar(100)"`
	FullName  string `gorm:"type:varchar(100)"`
	Company   string `gorm:"type:varchar(150)"` // Название компании клиента
	AvatarKey string `gorm:"type:varchar(255)"` // Ключ объекта в MinIO (avatars/<id>.<ext>)
}

package role

type Role int

const (
	Client Role = iota // Клиент компании, видит только свои данные
	Staff              // Сотрудник, ведет заявки и проекты
	Admin              // Администратор, плюс управление хранилищем и пользователями
)

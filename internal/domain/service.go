package domain

// ServiceItem услуга из справочника
// AverageDuration хранится в формате "HH:MM:SS"
type ServiceItem struct {
	ID              int64
	Name            string
	AverageDuration string
	Price           *float64
}

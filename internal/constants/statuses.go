package constants

import "database/sql/driver"

// ApplicationStatus mirrors the Postgres ENUM 'application_status'
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

func (s *ApplicationStatus) Scan(src interface{}) error {
	v, err := scanEnum("ApplicationStatus", src)
	*s = ApplicationStatus(v)
	return err
}

func (s ApplicationStatus) Value() (driver.Value, error) { return string(s), nil }

// EquipmentCondition mirrors the Postgres ENUM 'equipment_condition'
type EquipmentCondition string

const (
	ConditionNew     EquipmentCondition = "new"
	ConditionGood    EquipmentCondition = "good"
	ConditionFair    EquipmentCondition = "fair"
	ConditionPoor    EquipmentCondition = "poor"
	ConditionDamaged EquipmentCondition = "damaged"
)

func (c EquipmentCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

func (c *EquipmentCondition) Scan(src interface{}) error {
	v, err := scanEnum("EquipmentCondition", src)
	*c = EquipmentCondition(v)
	return err
}

func (c EquipmentCondition) Value() (driver.Value, error) { return string(c), nil }

// CompletionStatus mirrors the Postgres ENUM 'completion_status'.
// A NULL column means the outcome is still pending.
type CompletionStatus string

const (
	CompletionCompleted  CompletionStatus = "completed"
	CompletionIncomplete CompletionStatus = "incomplete"
	CompletionExcused    CompletionStatus = "excused"
	CompletionUnexcused  CompletionStatus = "unexcused"
)

func (s CompletionStatus) IsValid() bool {
	switch s {
	case CompletionCompleted, CompletionIncomplete, CompletionExcused, CompletionUnexcused:
		return true
	}
	return false
}

func (s *CompletionStatus) Scan(src interface{}) error {
	v, err := scanEnum("CompletionStatus", src)
	*s = CompletionStatus(v)
	return err
}

func (s CompletionStatus) Value() (driver.Value, error) { return string(s), nil }

// EventType mirrors the Postgres ENUM 'event_type'
type EventType string

const (
	EventPatrol    EventType = "patrol"
	EventMeeting   EventType = "meeting"
	EventCommunity EventType = "community"
	EventCeremony  EventType = "ceremony"
	EventOther     EventType = "other"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventPatrol, EventMeeting, EventCommunity, EventCeremony, EventOther:
		return true
	}
	return false
}

func (t *EventType) Scan(src interface{}) error {
	v, err := scanEnum("EventType", src)
	*t = EventType(v)
	return err
}

func (t EventType) Value() (driver.Value, error) { return string(t), nil }

// TrainingType mirrors the Postgres ENUM 'training_type'
type TrainingType string

const (
	TrainingFirearms         TrainingType = "firearms"
	TrainingDefensiveTactics TrainingType = "defensive_tactics"
	TrainingFirstAid         TrainingType = "first_aid"
	TrainingLegal            TrainingType = "legal"
	TrainingDriving          TrainingType = "driving"
	TrainingOther            TrainingType = "other"
)

func (t TrainingType) IsValid() bool {
	switch t {
	case TrainingFirearms, TrainingDefensiveTactics, TrainingFirstAid, TrainingLegal, TrainingDriving, TrainingOther:
		return true
	}
	return false
}

func (t *TrainingType) Scan(src interface{}) error {
	v, err := scanEnum("TrainingType", src)
	*t = TrainingType(v)
	return err
}

func (t TrainingType) Value() (driver.Value, error) { return string(t), nil }

// NotificationKind identifies which reminder sweep produced a notification
type NotificationKind string

const (
	NotificationEvent           NotificationKind = "event"
	NotificationTraining        NotificationKind = "training"
	NotificationEquipmentReturn NotificationKind = "equipment_return"
	NotificationPolicy          NotificationKind = "policy"
)

func (k NotificationKind) String() string { return string(k) }

package entities

import "errors"

type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformIndeed    Platform = "indeed"
	PlatformGlassdoor Platform = "glassdoor"
	PlatformCompany   Platform = "company"
	PlatformOther     Platform = "other"
)

func ToPlatform(s string) (Platform, error) {
	switch s {
	case string(PlatformLinkedIn):
		return PlatformLinkedIn, nil
	case string(PlatformIndeed):
		return PlatformIndeed, nil
	case string(PlatformGlassdoor):
		return PlatformGlassdoor, nil
	case string(PlatformCompany):
		return PlatformCompany, nil
	case string(PlatformOther):
		return PlatformOther, nil
	default:
		return "", errors.New("invalid platform")
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type FactorType string

const (
	FactorRedFlag  FactorType = "red_flag"
	FactorWarning  FactorType = "warning"
	FactorPositive FactorType = "positive"
)

func ToFactorType(s string) (FactorType, error) {
	switch s {
	case string(FactorRedFlag):
		return FactorRedFlag, nil
	case string(FactorWarning):
		return FactorWarning, nil
	case string(FactorPositive):
		return FactorPositive, nil
	default:
		return "", errors.New("invalid factor type")
	}
}

type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

func ToRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case string(RiskLow):
		return RiskLow, nil
	case string(RiskMedium):
		return RiskMedium, nil
	case string(RiskHigh):
		return RiskHigh, nil
	case string(RiskUnknown):
		return RiskUnknown, nil
	default:
		return "", errors.New("invalid risk level")
	}
}

package models

import (
	"encoding/json"
	"fmt"
)

type PayFrequency string

const (
	PayFrequencySemester PayFrequency = "Semester"
	PayFrequencyAnnual   PayFrequency = "Annual"
	PayFrequencyMonthly  PayFrequency = "Monthly"
	PayFrequencyOneTime  PayFrequency = "One-time"
)

func (f PayFrequency) IsValid() bool {
	switch f {
	case PayFrequencySemester, PayFrequencyAnnual, PayFrequencyMonthly, PayFrequencyOneTime:
		return true
	}
	return false
}

func (f *PayFrequency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := PayFrequency(str)
	if !v.IsValid() {
		return fmt.Errorf("%q is not a valid pay frequency", str)
	}
	*f = v
	return nil
}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeUpi          PaymentMode = "UPI Digital"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeCheque       PaymentMode = "Cheque"
)

func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUpi, PaymentModeBankTransfer, PaymentModeCheque:
		return true
	}
	return false
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v := PaymentMode(str)
	if !v.IsValid() {
		return fmt.Errorf("%q is not a valid payment mode", str)
	}
	*m = v
	return nil
}

type StaffRole string

const (
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

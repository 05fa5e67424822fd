package uplink

import "fmt"

type ContactReason uint8

const (
	ContactReset ContactReason = iota
	ContactScheduled
	ContactManual
	ContactActivation
)

func (r ContactReason) String() string {
	switch r {
	case ContactReset:
		return "Reset"
	case ContactScheduled:
		return "Scheduled"
	case ContactManual:
		return "Manual"
	case ContactActivation:
		return "Activation"
	default:
		return fmt.Sprintf("ContactReason(%d)", uint8(r))
	}
}

type ResetCause uint8

var resetCauses = [...]string{
	"Power on",
	"Brown out",
	"External",
	"Watchdog",
	"M3 lockup",
	"M3 system request",
	"EM4",
	"Backup mode",
}

func (c ResetCause) String() string {
	if int(c) < len(resetCauses) {
		return resetCauses[c]
	}
	return fmt.Sprintf("ResetCause(%d)", uint8(c))
}

type Status struct {
	UllageCM      int    `json:"ullage_cm"`
	TemperatureC  int    `json:"temp_c"`
	Firmware      string `json:"firmware"`
	ContactReason string `json:"contact_reason"`
	LastReset     string `json:"last_reset"`
	Active        bool   `json:"active"`
	BatteryPct    int    `json:"bat_pct"`
	TxPeriodHours int    `json:"tx_period_h"`
	SensorRSSIdBm int    `json:"sensor_rssi_dbm"`
	HardwareID    int    `json:"hw_id"`
}

func DecodeStatus(b []byte) (Status, error) {
	if err := need(b, 17, "status"); err != nil {
		return Status{}, err
	}
	reason := b[6]
	return Status{
		UllageCM:      int(b[14])<<8 | int(b[15]),
		TemperatureC:  temperature(b[16]),
		Firmware:      fmt.Sprintf("%d.%d", b[4], b[5]),
		ContactReason: ContactReason(reason & 0x03).String(),
		LastReset:     ResetCause((reason >> 2) & 0x07).String(),
		Active:        (reason>>5)&0x01 == 1,
		BatteryPct:    int(b[10]),
		TxPeriodHours: int(b[13]),
		SensorRSSIdBm: -int(b[8]),
		HardwareID:    int(b[3]),
	}, nil
}

package uplink

type Measurement struct {
	UllageCM     int `json:"ullage_cm"`
	TemperatureC int `json:"temp_c"`
	Src          int `json:"src"`
	SRSSI        int `json:"srssi"`
}

func DecodeMeasurement(b []byte) (Measurement, error) {
	if err := need(b, 8, "measurement"); err != nil {
		return Measurement{}, err
	}
	return Measurement{
		UllageCM:     int(b[4])<<8 | int(b[5]),
		TemperatureC: temperature(b[6]),
		Src:          int(b[7] >> 4),
		SRSSI:        int(b[7] & 0x0F),
	}, nil
}

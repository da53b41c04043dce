package finance

import (
	"fmt"
	"time"
)

const serialSuffix = "TF"

// NewSerialNumber tur seri numarası üretir: YYMM + 4 haneli rastgele sayı + "TF".
// Mevcut kayıtlarla çakışma kontrolü yapılmaz.
func NewSerialNumber(now time.Time, intn func(int) int) string {
	return fmt.Sprintf("%02d%02d%04d%s", now.Year()%100, int(now.Month()), intn(10000), serialSuffix)
}

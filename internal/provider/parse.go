package provider

import (
	"strconv"
	"strings"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
)

// parseKlines converts kline wire strings into price bars. The wire
// order is date,open,close,high,low,volume. Malformed lines are
// dropped, not reported; a short history degrades to an insufficient
// data verdict downstream.
func parseKlines(code string, klines []string) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, 0, len(klines))
	for _, line := range klines {
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			continue
		}

		date, err := time.Parse("2006-01-02", fields[0])
		if err != nil {
			continue
		}

		open, err1 := strconv.ParseFloat(fields[1], 64)
		close, err2 := strconv.ParseFloat(fields[2], 64)
		high, err3 := strconv.ParseFloat(fields[3], 64)
		low, err4 := strconv.ParseFloat(fields[4], 64)
		volume, err5 := strconv.ParseFloat(fields[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}

		bars = append(bars, contracts.PriceBar{
			Code:   code,
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}
	return bars
}

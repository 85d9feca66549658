// internal/display/balance.go
package display

import "fmt"

// BalanceColumn is where the amount follows the "Balance: $" label.
const BalanceColumn = 11

// CoinsPerDollar is the number of unit coins (quarters) in one dollar.
const CoinsPerDollar = 4

// FormatCoins renders a coin count as dollars and cents, e.g. 5 -> "1.25".
func FormatCoins(coins int) string {
	if coins < 0 {
		coins = 0
	}
	dollars := coins / CoinsPerDollar
	cents := (coins % CoinsPerDollar) * (100 / CoinsPerDollar)
	return fmt.Sprintf("%d.%02d", dollars, cents)
}

// ShowCoins refreshes the balance amount in place, blank-padded to the
// end of the first line.
func ShowCoins(d Display, coins int) {
	field := Width - BalanceColumn + 1
	s := fmt.Sprintf("%-*s", field, FormatCoins(coins))
	if len(s) > field {
		s = s[:field]
	}
	d.WriteAt(BalanceColumn, s)
}

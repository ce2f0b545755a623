// Command cpicast fits seasonal ARIMA models to the French consumer price
// index and projects it forward with confidence intervals.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

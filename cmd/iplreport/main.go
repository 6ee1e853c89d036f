package main

import "github.com/okian/iplstats/internal/report"

func main() {
	report.Execute()
}

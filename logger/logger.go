package logger

import (
	"fmt"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// Info prints an informational message to the console.
func Info(message string) {
	fmt.Printf("%s[INFO]%s    %s %s\n", colorCyan, colorReset, timestamp(), message)
}

// Success prints a success message to the console.
func Success(message string) {
	fmt.Printf("%s[SUCCESS]%s %s %s\n", colorGreen, colorReset, timestamp(), message)
}

// Warning prints a warning message to the console.
func Warning(message string) {
	fmt.Printf("%s[WARNING]%s %s %s\n", colorYellow, colorReset, timestamp(), message)
}

// Debug prints a debug message to the console.
func Debug(message string) {
	fmt.Printf("%s[DEBUG]%s   %s %s\n", colorBlue, colorReset, timestamp(), message)
}

// Error prints an error message to the console. err may be nil.
func Error(message string, err error) {
	if err != nil {
		fmt.Printf("%s[ERROR]%s   %s %s: %v\n", colorRed, colorReset, timestamp(), message, err)
		return
	}
	fmt.Printf("%s[ERROR]%s   %s %s\n", colorRed, colorReset, timestamp(), message)
}

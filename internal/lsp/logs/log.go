package logs

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "", 0)

func Init(l *log.Logger) {
	logger = l
}

func Println(v ...interface{}) {
	logger.Println(v...)
}

func Printf(fmt string, v ...interface{}) {
	logger.Printf(fmt, v...)
}

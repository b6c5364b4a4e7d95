package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv 读 .env，没有也不报错（生产环境直接用真实环境变量）
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
}

package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"PersonaLab/internal/config"
	botEntity "PersonaLab/internal/modules/bot/domain/entity"
	chatEntity "PersonaLab/internal/modules/chat/domain/entity"
	"PersonaLab/pkg/zlog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	zlog.Init(conf.LogConfig.LogPath)

	user := conf.MysqlConfig.User
	password := conf.MysqlConfig.Password
	host := conf.MysqlConfig.Host
	port := conf.MysqlConfig.Port
	database := conf.MysqlConfig.DatabaseName
	if database == "" {
		database = conf.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, database)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	// 自动迁移，如果没有建表，会自动创建对应的表
	err = GormDB.AutoMigrate(
		&botEntity.ModelProvider{},
		&botEntity.AIModel{},
		&botEntity.Persona{},
		&botEntity.Bot{},
		&botEntity.BotModerationThreshold{},
		&botEntity.ModerationSetting{},

		&chatEntity.Conversation{},
		&chatEntity.Utterance{},
		&chatEntity.Keystroke{},
	)
	if err != nil {
		zlog.Fatal(err.Error())
	}
}

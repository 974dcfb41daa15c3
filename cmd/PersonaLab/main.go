package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	https_server "PersonaLab/api/http"
	"PersonaLab/internal/config"
	"PersonaLab/internal/initial"
	botPersistence "PersonaLab/internal/modules/bot/infrastructure/persistence"
	"PersonaLab/pkg/redis"
	"PersonaLab/pkg/zlog"
)

func main() {
	// 1. 加载配置（.env 与日志在 config/initial 包初始化时就绪）
	conf := config.GetConfig()
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	// 2. 写入默认模型目录
	modelRepo := botPersistence.NewModelRepository(initial.GormDB)
	if err := initial.SeedCatalog(context.Background(), modelRepo); err != nil {
		zlog.Error("模型目录初始化失败: " + err.Error())
	}

	// 3. 启动跟进轮询器
	if https_server.Sweeper != nil {
		if err := https_server.Sweeper.Start(); err != nil {
			zlog.Error("跟进轮询器启动失败: " + err.Error())
		}
	}

	// 4. 启动 HTTP 服务
	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		// 目前使用 HTTP 启动。如果需要 HTTPS，请配置证书并使用 GE.RunTLS
		if err := https_server.GE.Run(addr); err != nil {
			zlog.Fatal("服务器启动失败: " + err.Error())
			return
		}
	}()

	// 5. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务器...")
	if https_server.Sweeper != nil {
		https_server.Sweeper.Stop()
	}
	if https_server.EventPublisher != nil {
		_ = https_server.EventPublisher.Close()
	}
	_ = redis.Close()
	zlog.Sync()

	zlog.Info("服务器已关闭")
}

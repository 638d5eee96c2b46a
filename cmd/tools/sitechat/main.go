package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/site-studio/backend/internal/client"
	"github.com/zhouzirui/site-studio/backend/internal/model/generation"
	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	baseURL := flag.String("url", envOrDefault("SITE_STUDIO_URL", "http://localhost:8080"), "后端地址")
	transportKind := flag.String("transport", "http", "传输方式: http 或 ws")
	themeID := flag.String("theme", envOrDefault("THEME", "restaurant"), "主题 ID，决定提示文案")
	themesFile := flag.String("themes", os.Getenv("THEMES_FILE"), "可选的主题 YAML 文件")
	timeout := flag.Duration("timeout", 3*time.Minute, "单次请求超时时间")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	active := loadTheme(*themeID, *themesFile)

	var transport client.Transport
	switch *transportKind {
	case "http":
		transport = client.NewHTTPTransport(*baseURL, nil)
	case "ws":
		ws, err := client.DialWS(ctx, *baseURL, func(step generation.Step) {
			log.Printf("进度: %s", step)
		})
		if err != nil {
			log.Fatalf("WebSocket 连接失败: %v", err)
		}
		defer ws.Close()
		transport = ws
	default:
		flag.Usage()
		log.Fatal("请通过 -transport=http 或 -transport=ws 指定传输方式")
	}

	ctrl := client.NewController(transport, client.Replies{
		Success: active.SuccessText,
		Failure: active.FailureText,
	})

	printed := 0
	ctrl.OnChange(func(snap client.Snapshot) {
		for _, entry := range snap.Transcript[printed:] {
			fmt.Printf("%-9s %s\n", entry.Role+":", entry.Text)
		}
		printed = len(snap.Transcript)
		if snap.InFlight {
			fmt.Println(active.LoadingText)
		}
	})

	fmt.Println(active.Heading)
	fmt.Println(active.Tagline)
	for _, suggestion := range active.Suggestions {
		fmt.Printf("  - %s\n", suggestion)
	}

	lastPreview := ""
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		reqCtx, cancel := context.WithTimeout(ctx, *timeout)
		err := ctrl.Send(reqCtx, scanner.Text())
		cancel()

		switch {
		case errors.Is(err, client.ErrEmptyMessage):
			continue
		case err != nil:
			log.Printf("请求失败: %v", err)
		}

		if preview := ctrl.Snapshot().PreviewURL(); preview != "" && preview != lastPreview {
			fmt.Printf("preview:  %s\n", preview)
			lastPreview = preview
		}
		if ctx.Err() != nil {
			break
		}
	}
}

func loadTheme(id, file string) theme.Theme {
	themes := theme.Seed()
	if file != "" {
		loaded, err := theme.LoadFile(file, themes)
		if err != nil {
			log.Fatalf("主题文件加载失败: %v", err)
		}
		themes = loaded
	}

	active, ok := theme.NewMemoryStore(themes).FindByID(id)
	if !ok {
		log.Fatalf("未知主题: %s", id)
	}
	return active
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

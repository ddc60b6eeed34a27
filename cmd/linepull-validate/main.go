// linepull-validate 检查折线参数和所有关卡配置
//
//	go run ./cmd/linepull-validate -root .
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gonewx/linepull/pkg/config"
	"github.com/gonewx/linepull/pkg/embedded"
)

func main() {
	root := flag.String("root", ".", "directory containing data/")
	flag.Parse()

	embedded.Init(os.DirFS(*root))
	if failed := validate(os.Stdout); failed > 0 {
		fmt.Printf("❌ %d 个文件验证失败\n", failed)
		os.Exit(1)
	}
	fmt.Printf("✅ 所有配置验证通过\n")
}

// validate 输出每个文件的检查结果，返回失败个数
func validate(out io.Writer) int {
	failed := 0

	if _, err := config.LoadLineConfig(config.DefaultLineConfigPath); err != nil {
		fmt.Fprintf(out, "❌ %s: %v\n", config.DefaultLineConfigPath, err)
		failed++
	} else {
		fmt.Fprintf(out, "✅ %s\n", config.DefaultLineConfigPath)
	}

	ids, err := config.ListLevels()
	if err != nil {
		fmt.Fprintf(out, "❌ %v\n", err)
		return failed + 1
	}
	if len(ids) == 0 {
		fmt.Fprintf(out, "❌ %s 下没有关卡\n", config.LevelsDir)
		return failed + 1
	}

	for _, id := range ids {
		path := config.LevelPath(id)
		level, err := config.LoadLevelConfig(path)
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", path, err)
			failed++
			continue
		}
		if level.ID != id {
			fmt.Fprintf(out, "❌ %s: id %q does not match file name\n", path, level.ID)
			failed++
			continue
		}

		geometry := level.Geometry()
		playable, total := 0, len(geometry.Lines)
		for _, src := range geometry.Lines {
			if len(src.Points) >= 2 {
				playable++
			}
		}
		if total == 0 {
			total = len(geometry.Polylines)
			for _, pts := range geometry.Polylines {
				if len(pts) >= 2 {
					playable++
				}
			}
		}
		fmt.Fprintf(out, "✅ %s: %q, %d/%d playable lines, %d lives\n", path, level.Name, playable, total, level.Lives)
	}
	return failed
}

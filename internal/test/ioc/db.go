package testioc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecodeclub/mall/ioc"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
	"gopkg.in/yaml.v3"
)

var db *egorm.Component

func InitDB() *egorm.Component {
	if db != nil {
		return db
	}
	if err := loadConfig(); err != nil {
		panic(err)
	}
	ioc.WaitForDBSetup(econf.GetStringMapString("mysql")["dsn"])
	db = egorm.Load("mysql").Build()
	return db
}

// loadConfig 从当前目录向上查找仓库根目录下的 config/local.yaml
func loadConfig() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	for {
		path := filepath.Join(dir, "config", "local.yaml")
		if _, err := os.Stat(path); err == nil {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return econf.LoadFromReader(bytes.NewReader(content), yaml.Unmarshal)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf("未找到 config/local.yaml")
		}
		dir = parent
	}
}

package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch 监听配置文件变化，每次写入后重新解析并回调 onChange；解析失败时回调 onError。
// 返回的首份配置与 Load 等价。
func Watch(path string, onChange func(*Config), onError func(error)) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("重新加载 %s 失败: %w", e.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()

	return cfg, nil
}

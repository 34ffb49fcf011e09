package logging

import (
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// EntryFields 提供单个缓存 key 相关的字段，供 HTTP 请求日志复用。
func EntryFields(action, key, cacheType string, hit bool) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"key":        key,
		"cache_type": cacheType,
		"cache_hit":  hit,
	}
}

// StatsFields 输出条目数与总大小，附带便于阅读的大小字符串。
func StatsFields(entries, bytes int64) logrus.Fields {
	return logrus.Fields{
		"entries":     entries,
		"total_bytes": bytes,
		"total_size":  HumanBytes(bytes),
	}
}

// HumanBytes 将字节数格式化为 "1.2 MB" 形式，负数按 0 处理。
func HumanBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

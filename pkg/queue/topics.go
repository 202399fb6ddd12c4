// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：smt.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：upload(上传管道)、careers(招聘)、leads(联系表单)

const (
	// 上传领域.
	TopicUploadStored = "smt.upload.stored" // 文件已写入上传后端并得到公开地址
	TopicUploadFailed = "smt.upload.failed" // 上传失败（鉴权之后的后端错误）

	// 业务记录领域.
	TopicApplicationReceived = "smt.careers.application.received" // 收到求职申请
	TopicLeadSubmitted       = "smt.leads.submitted"              // 收到联系表单
)

// 通配模式（NATS 语义）.
const (
	PatternUploadAll = "smt.upload.*"
	PatternAll       = "smt.>"
)

// AllTopics 返回全部主题，供 CLI 展示.
func AllTopics() []string {
	return []string{
		TopicUploadStored,
		TopicUploadFailed,
		TopicApplicationReceived,
		TopicLeadSubmitted,
	}
}

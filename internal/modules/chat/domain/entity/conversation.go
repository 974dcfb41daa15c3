package entity

import (
	"time"

	botEntity "PersonaLab/internal/modules/bot/domain/entity"
)

// Conversation 会话表。会话id由外部（问卷平台）提供，核心流程只创建不删除
type Conversation struct {
	Id               int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ConversationId   string `gorm:"column:conversation_id;uniqueIndex;type:varchar(255);not null;comment:外部会话id"`
	BotName          string `gorm:"column:bot_name;type:varchar(255);not null;comment:机器人名称快照"`
	ParticipantId    string `gorm:"column:participant_id;type:varchar(255);comment:被试id"`
	InitialUtterance string `gorm:"column:initial_utterance;type:text;comment:开场白快照"`

	// 研究元数据，透传存储
	StudyName      string `gorm:"column:study_name;type:varchar(255);comment:研究名称"`
	UserGroup      string `gorm:"column:user_group;type:varchar(255);comment:分组"`
	SurveyId       string `gorm:"column:survey_id;type:varchar(255);comment:问卷id"`
	SurveyMetaData string `gorm:"column:survey_meta_data;type:text;comment:问卷元数据原文"`

	// 会话初始化时从机器人人格集合中随机选定，整个会话期间不变
	SelectedPersonaId *int64 `gorm:"column:selected_persona_id;comment:选定人格id"`
	SelectedPersona   *botEntity.Persona

	StartedTime time.Time `gorm:"column:started_time;not null;comment:会话开始时间"`
}

func (Conversation) TableName() string {
	return "conversation"
}

// Utterance 发言表。只追加，created_time 是历史重建的唯一排序依据
type Utterance struct {
	Id             int64  `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ConversationDBId int64 `gorm:"column:conversation_db_id;index;not null;comment:会话表主键"`
	SpeakerId      string `gorm:"column:speaker_id;type:varchar(32);not null;comment:发言方 user/assistant"`
	BotName        string `gorm:"column:bot_name;type:varchar(255);comment:机器人名称（assistant侧）"`
	ParticipantId  string `gorm:"column:participant_id;type:varchar(255);comment:被试id（user侧）"`
	Text           string `gorm:"column:text;type:text;not null;comment:发言内容"`

	AudioFile string `gorm:"column:audio_file;type:varchar(512);comment:语音文件引用"`
	IsVoice   bool   `gorm:"column:is_voice;not null;default:0;comment:是否语音发言"`

	// assistant 侧留痕：本条回复实际使用的系统提示词与历史窗口
	InstructionPrompt string `gorm:"column:instruction_prompt;type:text;comment:送入模型的系统提示词"`
	ChatHistoryUsed   string `gorm:"column:chat_history_used;type:text;comment:送入模型的历史窗口（JSON）"`

	CreatedTime time.Time `gorm:"column:created_time;index;not null;comment:创建时间"`
}

func (Utterance) TableName() string {
	return "utterance"
}

// 发言方取值
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Keystroke 键击遥测，独立于会话注册，不设外键
type Keystroke struct {
	Id                    int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	ConversationId        string    `gorm:"column:conversation_id;index;type:varchar(255);not null;comment:外部会话id"`
	TotalTimeOnPage       float64   `gorm:"column:total_time_on_page;not null;comment:页面停留秒数"`
	TotalTimeAwayFromPage float64   `gorm:"column:total_time_away_from_page;not null;comment:页面离开秒数"`
	KeystrokeCount        int       `gorm:"column:keystroke_count;not null;comment:键击次数"`
	Timestamp             time.Time `gorm:"column:timestamp;not null;comment:采样时间"`
}

func (Keystroke) TableName() string {
	return "keystroke"
}

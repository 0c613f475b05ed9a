package protocol

// MsgID is the 16-bit namespace partitioned by area, per the message
// catalogue in §6 of the design. Ranges are reserved even where this repo
// only implements a subset of ids within them.
type MsgID uint16

const (
	// Login: 0x1000-0x10FF
	MsgLoginReq      MsgID = 0x1000
	MsgLoginRsp      MsgID = 0x1001
	MsgHeartbeatReq  MsgID = 0x1002
	MsgHeartbeatRsp  MsgID = 0x1003
	MsgKick          MsgID = 0x10F0

	// Character: 0x1100-0x11FF
	MsgRoleListReq   MsgID = 0x1100
	MsgRoleListRsp   MsgID = 0x1101
	MsgCreateRoleReq MsgID = 0x1102
	MsgCreateRoleRsp MsgID = 0x1103
	MsgSelectRoleReq MsgID = 0x1104
	MsgSelectRoleRsp MsgID = 0x1105
	MsgEnterGameReq  MsgID = 0x1106
	MsgEnterGameRsp  MsgID = 0x1107

	// Game/Movement: 0x1200-0x12FF
	MsgMoveReq        MsgID = 0x1200
	MsgMoveRsp        MsgID = 0x1201
	MsgEntitySpawn    MsgID = 0x1202
	MsgEntityDespawn  MsgID = 0x1203
	MsgEntityUpdate   MsgID = 0x1204
	MsgMonsterEnter   MsgID = 0x1210
	MsgMonsterLeave   MsgID = 0x1211
	MsgMonsterMove    MsgID = 0x1212
	MsgMonsterStats   MsgID = 0x1213
	MsgMonsterDeath   MsgID = 0x1214

	// Combat/Skill: 0x1300-0x13FF
	MsgAttackReq   MsgID = 0x1300
	MsgAttackRsp   MsgID = 0x1301
	MsgSkillReq    MsgID = 0x1302
	MsgSkillRsp    MsgID = 0x1303
	MsgSkillEffect MsgID = 0x1304
	MsgPlayEffect  MsgID = 0x1305
	MsgPlaySound   MsgID = 0x1306

	// NPC: 0x1400-0x14FF (JSON-bodied, FlagJSON set)
	MsgNpcInteractReq   MsgID = 0x1400
	MsgNpcInteractRsp   MsgID = 0x1401
	MsgNpcDialogShow    MsgID = 0x1402
	MsgNpcMenuSelect    MsgID = 0x1403
	MsgNpcShopOpen      MsgID = 0x1404
	MsgNpcShopClose     MsgID = 0x1405
	MsgNpcQuestAccept   MsgID = 0x1406
	MsgNpcQuestComplete MsgID = 0x1407

	// System: 0x1500-0x15FF
	MsgServerNotice MsgID = 0x1500
	MsgSystemKick   MsgID = 0x1501
)

// ResponseCode is the closed enum carried in every response payload.
type ResponseCode uint8

const (
	RespOK ResponseCode = iota
	RespAccountNotFound
	RespPasswordWrong
	RespNameExists
	RespTargetDead
	RespSkillCooldown
	RespInvalidAction
	RespTargetNotFound
	RespTargetOutOfRange
	RespInsufficientMP
	RespUnknown
)
